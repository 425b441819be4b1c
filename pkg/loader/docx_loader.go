package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/pkg/utils"
)

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Content string `xml:",chardata"`
}

// DocxLoader extracts paragraph text from .docx archives and groups adjacent
// paragraphs into chunk-sized fragments.
type DocxLoader struct {
	groupBudget int
}

func NewDocxLoader() *DocxLoader {
	return &DocxLoader{groupBudget: utils.DefaultChunkSize}
}

func (l *DocxLoader) Extensions() []string {
	return []string{".docx"}
}

func (l *DocxLoader) Load(_ context.Context, path string) ([]Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	paragraphs, err := extractDocxParagraphs(data)
	if err != nil {
		return nil, err
	}

	var fragments []Fragment
	var group []string
	var groupLen int
	flush := func() {
		if len(group) == 0 {
			return
		}
		fragments = append(fragments, Fragment{
			Text: strings.Join(group, "\n"),
			Metadata: map[string]interface{}{
				constant.MetaKeyLayout: "paragraph",
				"paragraph_count":      len(group),
			},
		})
		group = nil
		groupLen = 0
	}

	for _, p := range paragraphs {
		if groupLen > 0 && groupLen+len(p) > l.groupBudget {
			flush()
		}
		group = append(group, p)
		groupLen += len(p)
	}
	flush()

	return fragments, nil
}

func extractDocxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read document.xml: %w", err)
	}

	var doc documentXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document.xml: %w", err)
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Text {
				sb.WriteString(t.Content)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}
