package cli

import (
	"bytes"
	"fmt"
	"log"

	"github.com/javanhut/topograph/internal/colors"
	"github.com/javanhut/topograph/internal/config"
	"github.com/javanhut/topograph/internal/converter"
	"github.com/javanhut/topograph/internal/graph"
	"github.com/javanhut/topograph/internal/refs"
	"github.com/javanhut/topograph/internal/render"
	"github.com/javanhut/topograph/internal/repo"
	"github.com/javanhut/topograph/internal/store"
	"github.com/javanhut/topograph/internal/topo"
	"github.com/spf13/cobra"
)

func runTopo(cmd *cobra.Command, opts *rootOptions) error {
	root, err := repo.Locate(opts.dir)
	if err != nil {
		return err
	}
	gitDir := repo.GitDir(root)

	cfg, err := config.LoadConfig(gitDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	colorMode := cfg.Color.UI
	if cmd.Flags().Changed("color") {
		colorMode = opts.color
	}
	if err := colors.Configure(colorMode); err != nil {
		return err
	}

	useCache := cfg.Core.Cache
	if cmd.Flags().Changed("cache") {
		useCache = opts.cache
	}

	// HEAD is only reported; the graph does not depend on it.
	if head, err := refs.ReadHead(gitDir); err != nil {
		warnf("%v", err)
	} else if head.Detached {
		log.Printf("HEAD detached at %s", graph.Hash(head.Hash).Short())
	} else {
		log.Printf("HEAD -> %s", head.Branch())
	}

	branches, err := refs.ReadBranches(gitDir)
	if err != nil {
		return err
	}
	log.Printf("Found %d local branches", len(branches))

	var cache *store.DB
	if useCache {
		cachePath := cfg.CacheFile(gitDir)
		cache, err = store.Open(cachePath)
		if err != nil {
			warnf("Failed to open object cache %s: %v", cachePath, err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	g := graph.New()
	if _, err := converter.Load(gitDir, g, converter.Options{Cache: cache}); err != nil {
		return fmt.Errorf("load commits: %w", err)
	}
	g.Seal()

	for _, b := range refs.Attach(g, branches) {
		warnf("Branch %s points at unknown commit %s", b.Name, graph.Hash(b.Hash).Short())
	}

	order, err := topo.Sort(g)
	if err != nil {
		return fmt.Errorf("sort commits: %w", err)
	}

	// Render fully before writing so a failure never leaves partial output.
	var buf bytes.Buffer
	if err := render.Render(&buf, g, order); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// warnf logs a highlighted warning. Logging is silent unless --verbose.
func warnf(format string, args ...any) {
	log.Print(colors.WarningText("Warning: " + fmt.Sprintf(format, args...)))
}
