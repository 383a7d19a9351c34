package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/javanhut/topograph/internal/colors"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	dir     string
	color   string
	cache   bool
	verbose bool
}

// NewRootCommand builds the topograph command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "topograph",
		Short: "Print commit history as topologically ordered chains",
		Long: `Topograph rebuilds the commit graph of the enclosing Git repository from
its loose objects and prints every commit in topological order, newest
first, grouped into linear chains.

Line formats:
  <hash> <branches>   commit (branch names pointing at it, may be empty)
  <hash>=             fork point, other chains still pass through it
  =<hash>             merge commit re-entered to follow another parent

Examples:
  topograph                   # Print the graph of the current repository
  topograph -C ../other       # Start the repository search elsewhere
  topograph --cache           # Reuse decoded objects between runs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopo(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "C", ".", "Directory to start the repository search from")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.Flags().StringVar(&opts.color, "color", colors.ModeAuto, "Color output: auto, always or never")
	rootCmd.Flags().BoolVar(&opts.cache, "cache", false, "Cache decoded objects in the repository")

	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colors.ErrorText(err.Error()))
		os.Exit(1)
	}
}

func setupLogging(verbose bool, w io.Writer) {
	if !verbose {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(w)
}
