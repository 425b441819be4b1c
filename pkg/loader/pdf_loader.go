package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"ai-docchat-be/internal/constant"
)

// PdfLoader extracts text per page, one fragment per non-empty page.
type PdfLoader struct{}

func NewPdfLoader() *PdfLoader {
	return &PdfLoader{}
}

func (l *PdfLoader) Extensions() []string {
	return []string{".pdf"}
}

func (l *PdfLoader) Load(_ context.Context, path string) ([]Fragment, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var fragments []Fragment
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		fragments = append(fragments, Fragment{
			Text: text,
			Metadata: map[string]interface{}{
				constant.MetaKeyLayout: "page",
				"page_number":          pageNum,
			},
		})
	}
	return fragments, nil
}
