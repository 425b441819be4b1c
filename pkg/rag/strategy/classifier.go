package strategy

import (
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/entity"
)

// Classify tags how the context chunks handed to the LLM were produced.
// Structured loaders stamp a layout marker on their fragments; chunks without
// one came through the fixed-size splitter.
func Classify(chunks []entity.Chunk) string {
	if len(chunks) == 0 {
		return constant.StrategyNone
	}

	structured, fixed := 0, 0
	for _, c := range chunks {
		if _, ok := c.Metadata[constant.MetaKeyLayout]; ok {
			structured++
		} else {
			fixed++
		}
	}

	switch {
	case fixed == 0:
		return constant.StrategyStructuredLayout
	case structured == 0:
		return constant.StrategyFixedSplitter
	default:
		return constant.StrategyStructuredWithFallback
	}
}
