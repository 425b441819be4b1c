package embedding

// EmbeddingProvider turns text into a vector. taskType hints whether the text is
// a stored document or a retrieval query; providers that don't distinguish ignore
// it.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
