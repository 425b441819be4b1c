package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"ai-docchat-be/internal/constant"
)

// XlsxLoader extracts spreadsheet text, one fragment per non-empty sheet.
// Cells within a row are tab-joined, rows newline-joined.
type XlsxLoader struct{}

func NewXlsxLoader() *XlsxLoader {
	return &XlsxLoader{}
}

func (l *XlsxLoader) Extensions() []string {
	return []string{".xlsx"}
}

func (l *XlsxLoader) Load(_ context.Context, path string) ([]Fragment, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var fragments []Fragment
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		var lines []string
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}

		fragments = append(fragments, Fragment{
			Text: strings.Join(lines, "\n"),
			Metadata: map[string]interface{}{
				constant.MetaKeyLayout: "sheet",
				"sheet":                sheet,
			},
		})
	}
	return fragments, nil
}
