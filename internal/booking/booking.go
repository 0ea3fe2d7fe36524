// Package booking persists completed interview bookings and sends the
// confirmation mail.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kishor978/RAG-System/internal/email"
	"github.com/Kishor978/RAG-System/internal/rag"
)

var (
	ErrIncomplete   = errors.New("booking is missing required fields")
	ErrInvalidEmail = errors.New("booking email is not a valid address")
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type Booking struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ConversationID string    `gorm:"type:varchar(64);index" json:"conversation_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);not null" json:"email"`
	Date           string    `gorm:"type:varchar(64);not null" json:"date"`
	Time           string    `gorm:"type:varchar(32);not null" json:"time"`
	EmailSent      bool      `json:"email_sent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

type Manager struct {
	db     *gorm.DB
	sender email.Sender
}

func NewManager(db *gorm.DB, sender email.Sender) *Manager {
	return &Manager{db: db, sender: sender}
}

// ProcessBooking validates the extracted slots, saves the booking and
// sends the confirmation. Mail delivery is best-effort: a failed send is
// logged and recorded on the row, never surfaced to the caller.
func (m *Manager) ProcessBooking(ctx context.Context, conversationID string, info rag.BookingInfo) (*Booking, error) {
	if !info.Complete() {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(info.MissingFields(), ", "))
	}
	if !emailRe.MatchString(info.Email) {
		return nil, ErrInvalidEmail
	}

	b := &Booking{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Name:           info.Name,
		Email:          info.Email,
		Date:           info.Date,
		Time:           strings.TrimSpace(info.Time),
	}

	if err := m.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	subject := "Interview Confirmation"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour interview has been scheduled for %s at %s.\n\nBest regards,\nThe Team\n",
		b.Name, b.Date, b.Time,
	)
	if err := m.sender.Send(b.Email, subject, body); err != nil {
		log.Printf("[booking] confirmation send failed booking=%s err=%v", b.ID, err)
	} else {
		b.EmailSent = true
		if err := m.db.WithContext(ctx).Model(b).Update("email_sent", true).Error; err != nil {
			log.Printf("[booking] email_sent update failed booking=%s err=%v", b.ID, err)
		}
	}

	return b, nil
}

// GetByConversation returns bookings made in a conversation, newest first.
func (m *Manager) GetByConversation(ctx context.Context, conversationID string) ([]Booking, error) {
	var out []Booking
	err := m.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
