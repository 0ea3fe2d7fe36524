package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Kishor978/RAG-System/internal/rag"
)

type recordingSender struct {
	to      []string
	bodies  []string
	failAll bool
}

func (r *recordingSender) Send(to, subject, body string) error {
	if r.failAll {
		return errors.New("smtp down")
	}
	r.to = append(r.to, to)
	r.bodies = append(r.bodies, body)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Booking{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestProcessBooking_SavesAndSendsMail(t *testing.T) {
	db := openTestDB(t)
	sender := &recordingSender{}
	mgr := NewManager(db, sender)

	info := rag.BookingInfo{Name: "Jane Doe", Email: "jane@x.com", Date: "2024/05/01", Time: "14:30 "}
	b, err := mgr.ProcessBooking(context.Background(), "conv-1", info)
	if err != nil {
		t.Fatalf("process booking: %v", err)
	}
	if b.ID == "" {
		t.Fatalf("booking id not assigned")
	}
	if b.Time != "14:30" {
		t.Fatalf("stored time should be trimmed, got %q", b.Time)
	}
	if !b.EmailSent {
		t.Fatalf("email_sent should be true after successful send")
	}

	if len(sender.to) != 1 || sender.to[0] != "jane@x.com" {
		t.Fatalf("confirmation recipient: %v", sender.to)
	}
	if !strings.Contains(sender.bodies[0], "Jane Doe") || !strings.Contains(sender.bodies[0], "2024/05/01") {
		t.Fatalf("confirmation body missing booking details: %q", sender.bodies[0])
	}

	var stored Booking
	if err := db.First(&stored, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("booking row not saved: %v", err)
	}
	if stored.ConversationID != "conv-1" {
		t.Fatalf("conversation id: %q", stored.ConversationID)
	}
}

func TestProcessBooking_MailFailureStillSaves(t *testing.T) {
	db := openTestDB(t)
	mgr := NewManager(db, &recordingSender{failAll: true})

	info := rag.BookingInfo{Name: "Bob", Email: "bob@x.com", Date: "05/01/2024", Time: "2:30 pm"}
	b, err := mgr.ProcessBooking(context.Background(), "conv-2", info)
	if err != nil {
		t.Fatalf("mail failure must not fail the booking: %v", err)
	}
	if b.EmailSent {
		t.Fatalf("email_sent should stay false when delivery fails")
	}

	var stored Booking
	if err := db.First(&stored, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("booking row not saved: %v", err)
	}
}

func TestProcessBooking_Validation(t *testing.T) {
	db := openTestDB(t)
	mgr := NewManager(db, &recordingSender{})

	if _, err := mgr.ProcessBooking(context.Background(), "conv-3",
		rag.BookingInfo{Name: "Jane"}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	bad := rag.BookingInfo{Name: "Jane", Email: "not-an-email", Date: "2024/05/01", Time: "14:30"}
	if _, err := mgr.ProcessBooking(context.Background(), "conv-3", bad); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	var cnt int64
	if err := db.Model(&Booking{}).Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("rejected bookings must not be saved, found %d rows", cnt)
	}
}
