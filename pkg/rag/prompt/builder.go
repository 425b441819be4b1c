package prompt

import (
	"fmt"
	"strings"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/pkg/llm"
)

// Builder assembles the answer prompt from retrieved context and the user
// question.
type Builder struct {
	question string
	contexts []string
}

// NewBuilder creates a prompt builder. Contexts must already be in rank order.
func NewBuilder(question string, contexts []string) *Builder {
	return &Builder{
		question: question,
		contexts: contexts,
	}
}

// ContextBlock joins the retrieved chunk texts. Empty when nothing was
// retrieved.
func (b *Builder) ContextBlock() string {
	return strings.Join(b.contexts, constant.ContextJoinSep)
}

// Build produces the chat messages for the LLM call.
func (b *Builder) Build() []llm.Message {
	return []llm.Message{
		{Role: "system", Content: constant.AnswerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(constant.AnswerPromptTemplate, b.ContextBlock(), b.question)},
	}
}
