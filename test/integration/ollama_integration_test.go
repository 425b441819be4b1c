// FILE: test/integration/ollama_integration_test.go
// PURPOSE: Exercises the embedding and LLM providers against a live Ollama server.
// NOTE: Requires a running Ollama instance with the configured models pulled.
//       Set OLLAMA_BASE_URL (plus OLLAMA_EMBEDDING_MODEL / LLM_MODEL to override
//       the defaults) or every test here skips.

package integration

import (
	"context"
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm/factory"

	"github.com/joho/godotenv"
)

func ollamaBaseURL(t *testing.T) string {
	t.Helper()
	_ = godotenv.Load("../../.env")

	base := os.Getenv("OLLAMA_BASE_URL")
	if base == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	return base
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestOllamaConnection verifies Ollama is running and accessible
func TestOllamaConnection(t *testing.T) {
	base := ollamaBaseURL(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", base, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("Ollama not running at %s: %v", base, err)
	}
	defer res.Body.Close()

	t.Logf("✅ Ollama is running at %s (status: %d)", base, res.StatusCode)
}

// TestOllamaEmbeddingGeneration checks the provider returns vectors of the
// dimension the chunk table is declared with
func TestOllamaEmbeddingGeneration(t *testing.T) {
	base := ollamaBaseURL(t)
	model := envOrDefault("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text")

	provider := embedding.NewOllamaProvider(base, model)

	res, err := provider.Generate("The quick brown fox jumps over the lazy dog.", constant.TaskTypeDocument)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	values := res.Embedding.Values
	if len(values) != constant.EmbeddingDimensions {
		t.Fatalf("Dimension mismatch: got %d, want %d (model %s)", len(values), constant.EmbeddingDimensions, model)
	}

	var norm float64
	for _, v := range values {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		t.Fatal("Embedding is all zeros")
	}

	t.Logf("✅ Got %d-dimensional embedding from %s", len(values), model)
}

// TestOllamaEmbeddingSemanticOrdering embeds related and unrelated texts and
// checks the related pair scores higher. Model-dependent, so a mismatch only
// warns instead of failing
func TestOllamaEmbeddingSemanticOrdering(t *testing.T) {
	base := ollamaBaseURL(t)
	model := envOrDefault("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text")

	provider := embedding.NewOllamaProvider(base, model)

	embed := func(text string) []float32 {
		res, err := provider.Generate(text, constant.TaskTypeDocument)
		if err != nil {
			t.Fatalf("Generate failed for %q: %v", text, err)
		}
		return res.Embedding.Values
	}

	query := embed("How do cats behave at home?")
	related := embed("Cats sleep most of the day and groom themselves frequently.")
	unrelated := embed("Quarterly revenue grew 12 percent year over year.")

	simRelated := cosineSimilarity(query, related)
	simUnrelated := cosineSimilarity(query, unrelated)

	t.Logf("similarity(query, related)   = %.4f", simRelated)
	t.Logf("similarity(query, unrelated) = %.4f", simUnrelated)

	if simRelated <= simUnrelated {
		t.Logf("⚠️ Expected related text to score higher; model %s may need a different prompt style", model)
	} else {
		t.Log("✅ Related text ranked above unrelated text")
	}
}

// TestOllamaChatGeneration runs a prompt through the LLM provider the chat
// pipeline uses
func TestOllamaChatGeneration(t *testing.T) {
	base := ollamaBaseURL(t)
	model := envOrDefault("LLM_MODEL", "llama3")

	provider, err := factory.NewLLMProvider("ollama", model, base, "")
	if err != nil {
		t.Fatalf("Failed to build LLM provider: %v", err)
	}

	// First call may pull the model into memory, so allow a generous timeout
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	response, err := provider.Generate(ctx, "Reply with a single short sentence: what is an inverted index?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if response == "" {
		t.Error("Response should not be empty")
	}

	t.Logf("✅ Response: %s", response)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
