package rag

import "testing"

func TestClassifyQuery(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"I'd like to book an appointment for a meeting", IntentBooking},
		{"Can you schedule an interview slot for tomorrow?", IntentBooking},
		{"what did I say earlier?", IntentMetaConversation},
		{"summarize our conversation so far", IntentMetaConversation},
		{"what is the refund policy?", IntentDocumentGrounded},
		{"How long does shipping take?", IntentDocumentGrounded},
	}
	for _, tc := range cases {
		if got := ClassifyQuery(tc.query); got != tc.want {
			t.Fatalf("ClassifyQuery(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassifyQuery_BookingBeatsMeta(t *testing.T) {
	// Carries both a meta phrase and two booking terms; booking wins.
	q := "you said I could book an appointment, right?"
	if got := ClassifyQuery(q); got != IntentBooking {
		t.Fatalf("ClassifyQuery(%q) = %s, want booking", q, got)
	}
}

func TestClassifyQuery_SingleBookingTermIsNotBooking(t *testing.T) {
	q := "is there a book about gardening?"
	if got := ClassifyQuery(q); got == IntentBooking {
		t.Fatalf("one booking term must not trigger the booking intent")
	}
}
