package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ai-docchat-be/internal/apperror"
)

func TestRegistrySupported(t *testing.T) {
	r := NewRegistry()

	want := []string{".docx", ".md", ".pdf", ".txt", ".xlsx"}
	if got := r.Supported(); !reflect.DeepEqual(got, want) {
		t.Errorf("Supported() = %v, want %v", got, want)
	}

	tests := []struct {
		ext  string
		want bool
	}{
		{".txt", true},
		{".MD", true},
		{".docx", true},
		{".exe", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := r.IsSupported(tt.ext); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestRegistryUnsupportedFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Load(context.Background(), "report.exe")
	if !errors.Is(err, apperror.ErrUnsupportedFormat) {
		t.Errorf("Load(report.exe) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestPlaintextLoader(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("  hello world\nsecond line  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	fragments, err := NewRegistry().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("len(fragments) = %d, want 1", len(fragments))
	}
	if got, want := fragments[0].Text, "hello world\nsecond line"; got != want {
		t.Errorf("fragment text = %q, want %q", got, want)
	}
}

func TestPlaintextLoaderEmptyFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(path, []byte("   \n\t\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fragments, err := NewPlaintextLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(fragments) != 0 {
		t.Errorf("len(fragments) = %d, want 0", len(fragments))
	}
}
