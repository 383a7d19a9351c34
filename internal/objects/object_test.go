package objects

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func compress(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte(payload)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func commitPayload(tree string, parents ...string) string {
	var body strings.Builder
	body.WriteString("tree " + tree + "\n")
	for _, p := range parents {
		body.WriteString("parent " + p + "\n")
	}
	body.WriteString("author A U Thor <author@example.com> 1700000000 +0000\n")
	body.WriteString("committer A U Thor <author@example.com> 1700000000 +0000\n")
	body.WriteString("\nmessage\nparent " + strings.Repeat("f", 40) + "\n")
	return fmt.Sprintf("commit %d\x00%s", body.Len(), body.String())
}

func writeObject(t *testing.T, objectsDir, hash string, data []byte) {
	t.Helper()
	dir := filepath.Join(objectsDir, hash[:2])
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, hash[2:]), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func hexHash(c byte) string {
	return strings.Repeat(string(c), 40)
}

func TestDiscover(t *testing.T) {
	objectsDir := t.TempDir()

	writeObject(t, objectsDir, hexHash('b'), []byte("x"))
	writeObject(t, objectsDir, hexHash('a'), []byte("x"))
	writeObject(t, objectsDir, "a"+strings.Repeat("c", 39), []byte("x"))

	// things that must be skipped
	for _, p := range []string{
		filepath.Join("pack", "pack-1234.pack"),
		filepath.Join("info", "packs"),
		filepath.Join("aa", "tmp_obj_XYZ"),
		filepath.Join("zz", strings.Repeat("0", 38)),
		"stray",
	} {
		full := filepath.Join(objectsDir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	found, err := Discover(objectsDir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	var got []string
	for _, l := range found {
		got = append(got, l.Hash)
		if filepath.Base(l.Path) != l.Hash[2:] {
			t.Errorf("Path %s does not match hash %s", l.Path, l.Hash)
		}
	}
	want := []string{hexHash('a'), "a" + strings.Repeat("c", 39), hexHash('b')}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for a missing objects directory")
	}
}

func TestDecodeCommit(t *testing.T) {
	p1, p2 := hexHash('1'), hexHash('2')
	typ, parents, err := Decode(compress(t, commitPayload(hexHash('e'), p2, p1)), SHA1HexLen)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if typ != TypeCommit {
		t.Errorf("Expected commit, got %s", typ)
	}
	if want := []string{p2, p1}; !reflect.DeepEqual(parents, want) {
		t.Errorf("parents = %v, want %v", parents, want)
	}
}

func TestDecodeRootCommit(t *testing.T) {
	typ, parents, err := Decode(compress(t, commitPayload(hexHash('e'))), SHA1HexLen)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if typ != TypeCommit || len(parents) != 0 {
		t.Errorf("Expected root commit, got %s with parents %v", typ, parents)
	}
}

func TestDecodeNonCommit(t *testing.T) {
	tests := []struct {
		payload string
		want    Type
	}{
		{"blob 5\x00hello", TypeBlob},
		{"tree 0\x00", TypeTree},
		{"tag 3\x00abc", TypeTag},
	}
	for _, tt := range tests {
		typ, parents, err := Decode(compress(t, tt.payload), SHA1HexLen)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", tt.payload, err)
		}
		if typ != tt.want || parents != nil {
			t.Errorf("Decode(%q) = %s %v, want %s", tt.payload, typ, parents, tt.want)
		}
		if !typ.Known() {
			t.Errorf("Expected %s to be a known type", typ)
		}
	}

	typ, _, err := Decode(compress(t, "blobby 1\x00x"), SHA1HexLen)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if typ.Known() {
		t.Errorf("Expected %q to be unknown", typ)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		is    error
	}{
		{name: "not zlib", input: []byte("definitely not compressed")},
		{name: "truncated", input: compress(t, commitPayload(hexHash('e')))[:8]},
		{name: "no NUL", input: compress(t, "commit 12"), is: ErrInvalidHeader},
		{name: "no size", input: compress(t, "commit\x00tree x"), is: ErrInvalidHeader},
		{name: "bad parent", input: compress(t, "commit 30\x00tree "+hexHash('e')+"\nparent xyz\n"), is: ErrInvalidParent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.input, SHA1HexLen)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestParseParentsStopsAtFirstOtherLine(t *testing.T) {
	body := "tree " + hexHash('e') + "\n" +
		"parent " + hexHash('1') + "\n" +
		"author x\n" +
		"parent " + hexHash('2') + "\n"

	parents, err := ParseParents([]byte(body), SHA1HexLen)
	if err != nil {
		t.Fatalf("ParseParents failed: %v", err)
	}
	if want := []string{hexHash('1')}; !reflect.DeepEqual(parents, want) {
		t.Errorf("parents = %v, want %v", parents, want)
	}
}

func TestParseParentsSHA256(t *testing.T) {
	p := strings.Repeat("d", SHA256HexLen)
	body := "tree " + strings.Repeat("e", SHA256HexLen) + "\nparent " + p + "\n"

	parents, err := ParseParents([]byte(body), SHA256HexLen)
	if err != nil {
		t.Fatalf("ParseParents failed: %v", err)
	}
	if len(parents) != 1 || parents[0] != p {
		t.Errorf("parents = %v", parents)
	}

	if _, err := ParseParents([]byte(body), SHA1HexLen); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("Expected ErrInvalidParent for a hash of the wrong length, got %v", err)
	}
}

func TestDecodeErrorUnwrap(t *testing.T) {
	err := error(&DecodeError{Hash: "ab", Path: "/x/ab", Err: ErrInvalidHeader})
	if !errors.Is(err, ErrInvalidHeader) {
		t.Error("DecodeError should unwrap to its cause")
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Hash != "ab" {
		t.Error("errors.As should find the DecodeError")
	}
	if !strings.Contains(err.Error(), "/x/ab") {
		t.Errorf("Error() should mention the path, got %q", err.Error())
	}
}

func TestIsHash(t *testing.T) {
	if !IsHash("0123456789abcdef", 16) {
		t.Error("Expected lowercase hex to be accepted")
	}
	if IsHash("0123456789ABCDEF", 16) {
		t.Error("Expected uppercase hex to be rejected")
	}
	if IsHash("abc", 4) {
		t.Error("Expected wrong length to be rejected")
	}
}
