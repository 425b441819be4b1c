package strategy

import (
	"testing"

	"ai-docchat-be/internal/entity"
)

func TestClassify(t *testing.T) {
	structured := entity.Chunk{Id: "s_1", Text: "x", Metadata: map[string]interface{}{"layout": "page"}}
	fixed := entity.Chunk{Id: "f_1", Text: "y", Metadata: map[string]interface{}{"source": "notes.txt"}}

	tests := []struct {
		name   string
		chunks []entity.Chunk
		want   string
	}{
		{"no chunks", nil, "none"},
		{"empty slice", []entity.Chunk{}, "none"},
		{"all structured", []entity.Chunk{structured, structured}, "structured_layout"},
		{"all fixed", []entity.Chunk{fixed}, "fixed_1000_overlap_100"},
		{"mixed", []entity.Chunk{structured, fixed}, "structured_layout_with_txt_fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.chunks); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
