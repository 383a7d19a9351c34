// Package objects reads loose objects from a Git object store.
//
// Only loose objects are read. Pack files and the info directory are
// skipped during discovery.
package objects

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Type is the type tag at the start of an object payload.
type Type string

const (
	TypeCommit Type = "commit"
	TypeTree   Type = "tree"
	TypeBlob   Type = "blob"
	TypeTag    Type = "tag"
)

// Known reports whether t is one of the four Git object types.
func (t Type) Known() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob, TypeTag:
		return true
	}
	return false
}

var (
	// ErrInvalidHeader is returned for a payload without a "<type> <size>\x00" header.
	ErrInvalidHeader = errors.New("invalid object header")
	// ErrInvalidParent is returned for a "parent" line that does not carry a hash.
	ErrInvalidParent = errors.New("invalid parent line")
)

// DecodeError reports an object that could not be inflated or parsed.
type DecodeError struct {
	Hash string
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode object %s (%s): %v", e.Hash, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ---------------------------
// Small helpers
// ---------------------------

// ReadFile returns the raw, still compressed bytes of an object file.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// IsHash reports whether s is a lowercase hex string of length n.
func IsHash(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ---------------------------
// Git object parsing
// ---------------------------

// Inflate decompresses a zlib-wrapped object.
func Inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return raw, nil
}

// ParseHeader splits an inflated payload into its type tag and body.
func ParseHeader(raw []byte) (Type, []byte, error) {
	sep := bytes.IndexByte(raw, 0x00)
	if sep < 0 {
		return "", nil, fmt.Errorf("%w: missing NUL after header", ErrInvalidHeader)
	}

	header := string(raw[:sep])
	objType, size, ok := strings.Cut(header, " ")
	if !ok || objType == "" || size == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidHeader, header)
	}
	return Type(objType), raw[sep+1:], nil
}

// ParseParents returns the parent hashes of a commit body in the order they
// are listed. Parsing skips the leading tree line and stops at the first line
// that is not a parent line. hashLen is the length of a hash in hex.
func ParseParents(body []byte, hashLen int) ([]string, error) {
	lines := strings.Split(string(body), "\n")
	i := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "tree ") {
		i = 1
	}

	var parents []string
	for ; i < len(lines); i++ {
		rest, ok := strings.CutPrefix(lines[i], "parent ")
		if !ok {
			break
		}
		if !IsHash(rest, hashLen) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParent, lines[i])
		}
		parents = append(parents, rest)
	}
	return parents, nil
}

// Decode inflates a loose object and, for commits, extracts its parents.
// Non-commit objects return their type and no parents.
func Decode(compressed []byte, hashLen int) (Type, []string, error) {
	raw, err := Inflate(compressed)
	if err != nil {
		return "", nil, err
	}

	objType, body, err := ParseHeader(raw)
	if err != nil {
		return "", nil, err
	}
	if objType != TypeCommit {
		return objType, nil, nil
	}

	parents, err := ParseParents(body, hashLen)
	if err != nil {
		return "", nil, err
	}
	return objType, parents, nil
}
