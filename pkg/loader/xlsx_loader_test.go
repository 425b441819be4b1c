package loader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestXlsxLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.xlsx")

	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "Name"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "Role"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "A2", "Ada"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B2", "Engineer"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	fragments, err := NewXlsxLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("len(fragments) = %d, want 1", len(fragments))
	}
	if got, want := fragments[0].Text, "Name\tRole\nAda\tEngineer"; got != want {
		t.Errorf("fragment text = %q, want %q", got, want)
	}
	if got := fragments[0].Metadata["sheet"]; got != "Sheet1" {
		t.Errorf("sheet = %v, want Sheet1", got)
	}
}
