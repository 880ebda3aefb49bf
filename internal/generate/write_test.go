package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestWriteFilesSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	outputs := []OutputFile{
		{Path: filepath.Join(dir, "a", "a.pb.go"), Content: []byte("package a\n")},
		{Path: filepath.Join(dir, "b", "c", "c.pb.go"), Content: []byte("package c\n")},
	}
	n, err := WriteFiles(outputs, zerolog.Nop())
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if n != 2 {
		t.Fatalf("first write: wrote %d files, want 2", n)
	}

	outputs[1].Content = []byte("package c\n\nconst X = 1\n")
	n, err = WriteFiles(outputs, zerolog.Nop())
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if n != 1 {
		t.Fatalf("second write: wrote %d files, want 1", n)
	}
	got, err := os.ReadFile(outputs[1].Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(outputs[1].Content) {
		t.Fatalf("content = %q", got)
	}
}
