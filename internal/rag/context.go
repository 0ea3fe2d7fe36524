package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kishor978/RAG-System/internal/memory"
)

const noRelevantContext = "No relevant information found."

const metaContextHeader = "This is a question about the conversation itself. Here's the conversation history:"

// prepareDocumentContext embeds the (possibly enhanced) query, retrieves
// the top matching chunks and formats them as numbered document blocks.
func (m *Manager) prepareDocumentContext(ctx context.Context, query string) (string, error) {
	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	results, err := m.index.Search(ctx, vec, m.retrievalLimit)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}
	if len(results) == 0 {
		return noRelevantContext, nil
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("[Document %d] %s", i+1, r.Text))
	}
	return strings.Join(parts, "\n\n"), nil
}

// conversationContext formats up to the last limit messages as
// "Role: content" lines.
func (m *Manager) conversationContext(ctx context.Context, conversationID string, limit int) string {
	msgs := m.log.Recent(ctx, conversationID, limit)
	if len(msgs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, rolePrefix(msg.Role)+msg.Content)
	}
	return strings.Join(lines, "\n")
}

func rolePrefix(role string) string {
	switch role {
	case memory.RoleUser:
		return "User: "
	case memory.RoleAssistant:
		return "Assistant: "
	default:
		return "System: "
	}
}

// enhanceQuery widens short follow-up queries for retrieval by prepending
// the last two user utterances from the log (the current query is already
// appended at this point, so it is among them).
func (m *Manager) enhanceQuery(ctx context.Context, conversationID, query string) string {
	msgs := m.log.Recent(ctx, conversationID, 3)
	var userParts []string
	for _, msg := range msgs {
		if msg.Role == memory.RoleUser {
			userParts = append(userParts, msg.Content)
		}
	}
	if len(userParts) == 0 {
		return query
	}
	if len(userParts) > 2 {
		userParts = userParts[len(userParts)-2:]
	}
	return strings.Join(append(userParts, query), " ")
}

// historyForGenerator returns the role/content pairs handed to the
// Generator: user and assistant turns, plus a leading system message when
// one seeds the conversation.
func historyForGenerator(msgs []memory.Message) []memory.Message {
	history := make([]memory.Message, 0, len(msgs))
	for i, msg := range msgs {
		switch msg.Role {
		case memory.RoleUser, memory.RoleAssistant:
			history = append(history, msg)
		case memory.RoleSystem:
			if i == 0 {
				history = append(history, msg)
			}
		}
	}
	return history
}
