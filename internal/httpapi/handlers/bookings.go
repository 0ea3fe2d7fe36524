package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kishor978/RAG-System/internal/booking"
	"github.com/Kishor978/RAG-System/internal/common"
	"github.com/Kishor978/RAG-System/internal/rag"
)

type createBookingReq struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ConversationID string `json:"conversation_id"`
}

// CreateBooking books directly, bypassing the conversational slot
// filling. Same validation and confirmation mail as the chat flow.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	info := rag.BookingInfo{
		Name:  req.Name,
		Email: req.Email,
		Date:  req.Date,
		Time:  req.Time,
	}
	b, err := h.Booking.ProcessBooking(c.Request.Context(), req.ConversationID, info)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrIncomplete):
			common.Fail(c, http.StatusBadRequest, 10020, err.Error())
		case errors.Is(err, booking.ErrInvalidEmail):
			common.Fail(c, http.StatusBadRequest, 10021, "invalid email address")
		default:
			common.Fail(c, http.StatusInternalServerError, 50020, "failed to create booking")
		}
		return
	}

	common.OK(c, gin.H{"booking": b})
}
