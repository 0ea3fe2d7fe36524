package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kishor978/RAG-System/internal/memory"
)

const systemPromptTemplate = `You are a helpful assistant. Answer the user's question using the context below. If the context does not contain the answer, say so instead of guessing.

CONTEXT:
%s`

// ResponseGenerator adapts a chat Provider to the per-turn generation
// call: the assembled context rides in the system message, prior turns
// become the chat history.
type ResponseGenerator struct {
	provider Provider
}

func NewResponseGenerator(provider Provider) *ResponseGenerator {
	return &ResponseGenerator{provider: provider}
}

func (g *ResponseGenerator) Generate(ctx context.Context, prompt, contextText string, history []memory.Message) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTemplate, contextText),
	})

	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}

	// The current query is normally the tail of the history (it is logged
	// before generation); append it only when it is not there yet.
	if len(history) == 0 || history[len(history)-1].Content != prompt {
		messages = append(messages, Message{Role: "user", Content: prompt})
	}

	return g.provider.Chat(ctx, messages)
}

// FallbackGenerator answers from the retrieved context alone. It stands
// in when no chat provider is configured so the pipeline stays usable.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(ctx context.Context, prompt, contextText string, history []memory.Message) (string, error) {
	_ = ctx
	_ = prompt
	_ = history
	if strings.TrimSpace(contextText) == "" {
		return "I don't have enough information to answer that.", nil
	}
	return "Based on the available information:\n\n" + contextText, nil
}
