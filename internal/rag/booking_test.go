package rag

import (
	"reflect"
	"testing"
)

func TestExtractBookingInfo_AllSlotsInOneMessage(t *testing.T) {
	info := ExtractBookingInfo("My name is Jane Doe, email jane@x.com, on 2024/05/01 at 14:30")

	if info.Name != "Jane Doe" {
		t.Fatalf("name: got %q", info.Name)
	}
	if info.Email != "jane@x.com" {
		t.Fatalf("email: got %q", info.Email)
	}
	if info.Date != "2024/05/01" {
		t.Fatalf("date: got %q", info.Date)
	}
	if info.Time != "14:30 " {
		t.Fatalf("time: got %q, want %q", info.Time, "14:30 ")
	}
	if !info.Complete() {
		t.Fatalf("expected complete booking info")
	}
}

func TestExtractBookingInfo_DatePatternOrder(t *testing.T) {
	// The numeric MM/DD/YYYY pattern is tried first; once it matches, the
	// textual form later in the message is never considered.
	info := ExtractBookingInfo("either 05/01/2024 or January 5, 2024 works")
	if info.Date != "05/01/2024" {
		t.Fatalf("date: got %q, want first-pattern match", info.Date)
	}

	info = ExtractBookingInfo("let's meet January 5, 2024")
	if info.Date != "January 5, 2024" {
		t.Fatalf("date: got %q", info.Date)
	}

	info = ExtractBookingInfo("maybe 5 January 2024 instead")
	if info.Date != "5 January 2024" {
		t.Fatalf("date: got %q", info.Date)
	}
}

func TestExtractBookingInfo_TimeMeridiem(t *testing.T) {
	info := ExtractBookingInfo("see you at 2:30 PM")
	if info.Time != "2:30 pm" {
		t.Fatalf("time: got %q, want %q", info.Time, "2:30 pm")
	}
}

func TestExtractBookingInfo_NameCarrierPhrases(t *testing.T) {
	if got := ExtractBookingInfo("I am Bob").Name; got != "Bob" {
		t.Fatalf("name via 'I am': got %q", got)
	}
	if got := ExtractBookingInfo("hello, booking for the team").Name; got != "" {
		t.Fatalf("name without carrier phrase: got %q", got)
	}
}

func TestMissingFields_FixedOrder(t *testing.T) {
	info := BookingInfo{Email: "a@b.co"}
	want := []string{"name", "date", "time"}
	if got := info.MissingFields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("missing fields: got %v want %v", got, want)
	}
	if (BookingInfo{}).Complete() {
		t.Fatalf("zero value must not be complete")
	}
}
