package rag

import (
	"fmt"
	"regexp"
	"strings"
)

// BookingInfo holds the slots collected for an interview booking. The zero
// value of a field means the slot has not been captured yet; there are no
// sentinel placeholders.
type BookingInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
}

func (b BookingInfo) Complete() bool {
	return b.Name != "" && b.Email != "" && b.Date != "" && b.Time != ""
}

// MissingFields lists the unfilled slot names in a fixed order.
func (b BookingInfo) MissingFields() []string {
	var missing []string
	if b.Name == "" {
		missing = append(missing, "name")
	}
	if b.Email == "" {
		missing = append(missing, "email")
	}
	if b.Date == "" {
		missing = append(missing, "date")
	}
	if b.Time == "" {
		missing = append(missing, "time")
	}
	return missing
}

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Tried in order; the first pattern with any match wins and later patterns
// are skipped. Word boundaries keep the short numeric form from matching
// inside a four-digit year.
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`),   // MM/DD/YYYY or DD/MM/YYYY
	regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b`),     // YYYY/MM/DD
	regexp.MustCompile(`\b[A-Za-z]+\s+\d{1,2},?\s+\d{4}\b`),   // Month DD, YYYY
	regexp.MustCompile(`\b\d{1,2}\s+[A-Za-z]+\s+\d{4}\b`),     // DD Month YYYY
}

var timeRe = regexp.MustCompile(`(\d{1,2}:\d{2})\s*(am|pm|AM|PM)?`)

var nameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my\s+name\s+is\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)`),
	regexp.MustCompile(`(?i)\bI\s+am\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)`),
}

// ExtractBookingInfo pulls booking slots out of a single utterance with
// best-effort pattern matching. It never looks at earlier turns: each call
// sees only the current query text.
func ExtractBookingInfo(query string) BookingInfo {
	var info BookingInfo

	if m := emailRe.FindString(query); m != "" {
		info.Email = m
	}

	for _, re := range dateRes {
		if m := re.FindString(query); m != "" {
			info.Date = m
			break
		}
	}

	if m := timeRe.FindStringSubmatch(query); m != nil {
		// Normalized as "<HH:MM> <am|pm|''>"; the meridiem slot stays,
		// empty or not.
		info.Time = fmt.Sprintf("%s %s", m[1], strings.ToLower(m[2]))
	}

	for _, re := range nameRes {
		if m := re.FindStringSubmatch(query); m != nil {
			info.Name = m[1]
			break
		}
	}

	return info
}
