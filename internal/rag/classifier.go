package rag

import "strings"

// Intent is the classified purpose of a single user turn.
type Intent int

const (
	IntentDocumentGrounded Intent = iota
	IntentBooking
	IntentMetaConversation
)

func (i Intent) String() string {
	switch i {
	case IntentBooking:
		return "booking"
	case IntentMetaConversation:
		return "meta_conversation"
	default:
		return "document_grounded"
	}
}

// Policy thresholds for the keyword heuristics below.
const (
	bookingThreshold = 2
	metaThreshold    = 1
)

var bookingTerms = []string{
	"book", "schedule", "appointment", "interview", "meeting",
	"reservation", "slot", "time", "available", "booking",
}

var metaTerms = []string{
	"conversation", "chat", "talking", "discussed", "said",
	"mentioned", "asked", "told", "question", "answer",
	"previous", "before", "earlier", "first", "second", "third",
	"last time", "summary", "summarize", "history",
}

var metaPhrases = []string{
	"what did i", "what did you", "what was my", "what was your",
	"you said", "i said", "did i say", "did you say",
	"our conversation", "we talked", "we discussed",
	"tell me what", "repeat what", "summarize our",
}

// ClassifyQuery assigns one of three intents to a raw user utterance.
// Booking wins when at least bookingThreshold vocabulary terms appear;
// it takes precedence over meta-conversation when both would trigger.
func ClassifyQuery(query string) Intent {
	q := strings.ToLower(query)

	if countTerms(q, bookingTerms) >= bookingThreshold {
		return IntentBooking
	}
	for _, phrase := range metaPhrases {
		if strings.Contains(q, phrase) {
			return IntentMetaConversation
		}
	}
	if countTerms(q, metaTerms) >= metaThreshold {
		return IntentMetaConversation
	}
	return IntentDocumentGrounded
}

// countTerms counts how many vocabulary terms occur in q, each term at
// most once regardless of repetition.
func countTerms(q string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(q, term) {
			n++
		}
	}
	return n
}
