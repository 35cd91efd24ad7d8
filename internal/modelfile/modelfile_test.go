package modelfile

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	content := []byte("le ||| the ||| -0.1\n")

	plain := filepath.Join(dir, "m.txt")
	if err := os.WriteFile(plain, content, 0o644); err != nil {
		t.Fatal(err)
	}

	gzPath := filepath.Join(dir, "m.txt.gz")
	f, err := os.Create(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	xzPath := filepath.Join(dir, "m.txt.xz")
	f, err = os.Create(xzPath)
	if err != nil {
		t.Fatal(err)
	}
	xw, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := xw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, gzPath, xzPath} {
		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%q): %v", path, err)
		}
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("read %q: %v", path, err)
		}
		if err := r.Close(); err != nil {
			t.Fatalf("close %q: %v", path, err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("Open(%q) = %q, want %q", path, got, content)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file should fail")
	}

	for _, ext := range []string{".gz", ".xz"} {
		path := filepath.Join(dir, "junk"+ext)
		if err := os.WriteFile(path, []byte("not compressed"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(path); err == nil {
			t.Errorf("junk %s file should fail", ext)
		}
	}
}
