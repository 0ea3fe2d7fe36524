package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kishor978/RAG-System/internal/common"
	"github.com/Kishor978/RAG-System/internal/memory"
	"github.com/Kishor978/RAG-System/internal/rag"
)

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

type chatReq struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// Chat runs one conversational turn. A completed booking is persisted
// and confirmed by mail before the reply goes out.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	res, err := h.Rag.ProcessTurn(c.Request.Context(), req.Message, req.ConversationID)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrEmptyQuery):
			common.Fail(c, http.StatusBadRequest, 10002, "message must not be empty")
		case errors.Is(err, rag.ErrConversationNotFound):
			common.Fail(c, http.StatusNotFound, 40404, "conversation not found or expired")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to process message")
		}
		return
	}

	data := gin.H{
		"response":        res.Response,
		"conversation_id": res.ConversationID,
		"intent":          res.Intent.String(),
	}
	if res.BookingInfo != nil {
		data["booking_info"] = res.BookingInfo
		data["booking_complete"] = res.BookingComplete
		if len(res.MissingFields) > 0 {
			data["missing_fields"] = res.MissingFields
		}
	}

	if res.BookingComplete && res.BookingInfo != nil {
		b, err := h.Booking.ProcessBooking(c.Request.Context(), res.ConversationID, *res.BookingInfo)
		if err != nil {
			log.Printf("[Chat] booking persist failed conversation=%s err=%v", res.ConversationID, err)
		} else {
			data["booking_id"] = b.ID
		}
	}

	common.OK(c, data)
}

func (h *Handler) GetConversation(c *gin.Context) {
	id := c.Param("conversation_id")
	conv, err := h.Memory.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40404, "conversation not found or expired")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to load conversation")
		return
	}

	common.OK(c, gin.H{
		"conversation_id": conv.ConversationID,
		"messages":        conv.Messages,
		"metadata":        conv.Metadata,
	})
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	id := c.Param("conversation_id")
	if !h.Memory.Delete(c.Request.Context(), id) {
		common.Fail(c, http.StatusNotFound, 40404, "conversation not found or expired")
		return
	}
	common.OK(c, gin.H{"deleted": true})
}

func (h *Handler) ListConversationBookings(c *gin.Context) {
	id := c.Param("conversation_id")
	bookings, err := h.Booking.GetByConversation(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list bookings")
		return
	}
	common.OK(c, gin.H{"bookings": bookings})
}
