package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"ai-docchat-be/internal/apperror"
)

// Fragment is one unit of extracted text. Structured loaders (docx, pdf, xlsx)
// emit fragments that are already chunk-sized and tagged with a "layout" marker;
// plain-text fragments carry no marker and get split downstream.
type Fragment struct {
	Text     string
	Metadata map[string]interface{}
}

// DocumentLoader extracts text fragments from one file format.
type DocumentLoader interface {
	Load(ctx context.Context, path string) ([]Fragment, error)
	Extensions() []string
}

// Registry routes a file to its loader by extension.
type Registry struct {
	loaders map[string]DocumentLoader
}

// NewRegistry wires every built-in loader.
func NewRegistry() *Registry {
	r := &Registry{loaders: make(map[string]DocumentLoader)}
	r.Register(NewPlaintextLoader())
	r.Register(NewDocxLoader())
	r.Register(NewPdfLoader())
	r.Register(NewXlsxLoader())
	return r
}

func (r *Registry) Register(l DocumentLoader) {
	for _, ext := range l.Extensions() {
		r.loaders[strings.ToLower(ext)] = l
	}
}

// Load extracts the fragments of the file at path, choosing the loader by
// extension.
func (r *Registry) Load(ctx context.Context, path string) ([]Fragment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("no loader for %q: %w", ext, apperror.ErrUnsupportedFormat)
	}
	return l.Load(ctx, path)
}

// IsSupported reports whether files with the given extension can be loaded.
func (r *Registry) IsSupported(ext string) bool {
	_, ok := r.loaders[strings.ToLower(ext)]
	return ok
}

// Supported lists the accepted extensions, sorted, for whitelists and error
// messages.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
