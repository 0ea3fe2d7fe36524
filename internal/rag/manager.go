// Package rag drives the per-turn retrieval and orchestration pipeline:
// classify the query, assemble context, run the booking sub-flow, generate.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Kishor978/RAG-System/internal/document"
	"github.com/Kishor978/RAG-System/internal/memory"
)

var (
	// ErrEmptyQuery rejects blank input before anything is logged.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrConversationNotFound reports an unknown or expired conversation id.
	ErrConversationNotFound = errors.New("conversation not found or expired")

	// ErrCollaborator is the generic failure surfaced when embedding,
	// retrieval or generation breaks mid-turn. The user message appended
	// before the failure stays in the log; no assistant message records
	// the failed attempt.
	ErrCollaborator = errors.New("failed to generate a response")
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex searches previously upserted chunks by vector similarity.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, limit int) ([]document.ScoredChunk, error)
}

// Generator produces the assistant reply from the query, the assembled
// context and optional prior history.
type Generator interface {
	Generate(ctx context.Context, prompt, contextText string, history []memory.Message) (string, error)
}

// ConversationLog is the append-only TTL-bounded message store.
type ConversationLog interface {
	Create(ctx context.Context, systemMessage string) (string, error)
	Append(ctx context.Context, conversationID, role, content string) bool
	Get(ctx context.Context, conversationID string) (*memory.Conversation, error)
	Recent(ctx context.Context, conversationID string, limit int) []memory.Message
	UpdateMetadata(ctx context.Context, conversationID string, patch map[string]any) bool
}

// TurnResult is the outcome of one processed turn.
type TurnResult struct {
	Response        string       `json:"response"`
	ConversationID  string       `json:"conversation_id"`
	Intent          Intent       `json:"-"`
	BookingInfo     *BookingInfo `json:"booking_info,omitempty"`
	BookingComplete bool         `json:"booking_complete,omitempty"`
	MissingFields   []string     `json:"missing_fields,omitempty"`
}

// Manager ties the classifier, extractor and assembler together with the
// injected collaborators. It keeps no state between turns: everything a
// turn needs is re-derived from the conversation log.
type Manager struct {
	embedder Embedder
	index    VectorIndex
	gen      Generator
	log      ConversationLog

	retrievalLimit int
	historyLimit   int
}

func NewManager(embedder Embedder, index VectorIndex, gen Generator, convLog ConversationLog, retrievalLimit, historyLimit int) *Manager {
	if retrievalLimit <= 0 {
		retrievalLimit = 5
	}
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Manager{
		embedder:       embedder,
		index:          index,
		gen:            gen,
		log:            convLog,
		retrievalLimit: retrievalLimit,
		historyLimit:   historyLimit,
	}
}

// ProcessTurn runs one conversational turn. With an empty conversationID a
// fresh conversation is created; an id that no longer resolves (expired)
// fails with ErrConversationNotFound rather than silently starting over.
func (m *Manager) ProcessTurn(ctx context.Context, query, conversationID string) (*TurnResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if conversationID == "" {
		id, err := m.log.Create(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
		}
		conversationID = id
	}

	if !m.log.Append(ctx, conversationID, memory.RoleUser, query) {
		return nil, ErrConversationNotFound
	}

	intent := ClassifyQuery(query)
	if intent == IntentBooking {
		return m.handleBookingTurn(ctx, query, conversationID), nil
	}

	var (
		contextText string
		err         error
	)
	if intent == IntentMetaConversation {
		// Answer from history; document retrieval is skipped entirely.
		contextText = metaContextHeader + "\n" + m.conversationContext(ctx, conversationID, m.historyLimit)
	} else {
		contextText, err = m.prepareDocumentContext(ctx, m.enhanceQuery(ctx, conversationID, query))
		if err != nil {
			log.Printf("[rag] context assembly failed conversation=%s err=%v", conversationID, err)
			return nil, ErrCollaborator
		}
	}

	conv, err := m.log.Get(ctx, conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	history := historyForGenerator(conv.Messages)

	response, err := m.gen.Generate(ctx, query, contextText, history)
	if err != nil {
		log.Printf("[rag] generation failed conversation=%s err=%v", conversationID, err)
		return nil, ErrCollaborator
	}

	m.log.Append(ctx, conversationID, memory.RoleAssistant, response)

	return &TurnResult{
		Response:       response,
		ConversationID: conversationID,
		Intent:         intent,
	}, nil
}

// handleBookingTurn runs the slot-filling sub-flow. Extraction sees only
// the current utterance: slots captured on earlier turns are not merged
// in, so a booking only completes when one message carries all four.
func (m *Manager) handleBookingTurn(ctx context.Context, query, conversationID string) *TurnResult {
	info := ExtractBookingInfo(query)

	result := &TurnResult{
		ConversationID: conversationID,
		Intent:         IntentBooking,
		BookingInfo:    &info,
	}

	if info.Complete() {
		m.log.UpdateMetadata(ctx, conversationID, map[string]any{"booking_info": info})
		result.BookingComplete = true
		result.Response = fmt.Sprintf(
			"I've scheduled your interview for %s at %s. A confirmation email will be sent to %s. Thank you, %s!",
			info.Date, info.Time, info.Email, info.Name,
		)
	} else {
		result.MissingFields = info.MissingFields()
		result.Response = fmt.Sprintf(
			"I'd like to help you book an interview. Could you please provide the following details: %s?",
			strings.Join(result.MissingFields, ", "),
		)
	}

	m.log.Append(ctx, conversationID, memory.RoleAssistant, result.Response)
	return result
}
