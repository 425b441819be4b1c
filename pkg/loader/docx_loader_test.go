package loader

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"ai-docchat-be/internal/constant"
)

func writeDocxFixture(t *testing.T, paragraphs []string) string {
	t.Helper()

	xmlDoc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	for _, p := range paragraphs {
		xmlDoc += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	xmlDoc += `<w:p/></w:body></w:document>`

	path := filepath.Join(t.TempDir(), "fixture.docx")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte(xmlDoc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocxLoader(t *testing.T) {
	path := writeDocxFixture(t, []string{"First paragraph.", "Second paragraph."})

	fragments, err := NewDocxLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("len(fragments) = %d, want 1", len(fragments))
	}
	if got, want := fragments[0].Text, "First paragraph.\nSecond paragraph."; got != want {
		t.Errorf("fragment text = %q, want %q", got, want)
	}
	if got := fragments[0].Metadata[constant.MetaKeyLayout]; got != "paragraph" {
		t.Errorf("layout marker = %v, want paragraph", got)
	}
	if got := fragments[0].Metadata["paragraph_count"]; got != 2 {
		t.Errorf("paragraph_count = %v, want 2", got)
	}
}

func TestDocxLoaderGroupsByBudget(t *testing.T) {
	path := writeDocxFixture(t, []string{"aaaa aaaa aaaa.", "bbbb bbbb bbbb.", "cccc cccc cccc."})

	l := &DocxLoader{groupBudget: 20}
	fragments, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(fragments) != 3 {
		t.Fatalf("len(fragments) = %d, want 3", len(fragments))
	}
	for i, f := range fragments {
		if f.Metadata["paragraph_count"] != 1 {
			t.Errorf("fragment %d paragraph_count = %v, want 1", i, f.Metadata["paragraph_count"])
		}
	}
}

func TestDocxLoaderMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hollow.docx")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	out.Close()

	if _, err := NewDocxLoader().Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for archive without word/document.xml")
	}
}
