package handlers

import (
	"gorm.io/gorm"

	"github.com/Kishor978/RAG-System/internal/booking"
	"github.com/Kishor978/RAG-System/internal/config"
	"github.com/Kishor978/RAG-System/internal/document"
	"github.com/Kishor978/RAG-System/internal/evaluation"
	"github.com/Kishor978/RAG-System/internal/memory"
	"github.com/Kishor978/RAG-System/internal/rag"
	"github.com/Kishor978/RAG-System/internal/store/rabbitmq"
)

// Handler carries the wired collaborators for every route. Construction
// happens in cmd/server where the full dependency graph is assembled.
type Handler struct {
	DB        *gorm.DB
	Cfg       config.Config
	Rag       *rag.Manager
	Memory    *memory.Store
	Booking   *booking.Manager
	Docs      *document.Processor
	DocRepo   *document.Repo
	Rabbit    *rabbitmq.Publisher
	Evaluator *evaluation.Evaluator
}

func NewHandler(
	db *gorm.DB,
	cfg config.Config,
	ragMgr *rag.Manager,
	mem *memory.Store,
	bookingMgr *booking.Manager,
	docs *document.Processor,
	docRepo *document.Repo,
	rabbit *rabbitmq.Publisher,
	evaluator *evaluation.Evaluator,
) *Handler {
	return &Handler{
		DB:        db,
		Cfg:       cfg,
		Rag:       ragMgr,
		Memory:    mem,
		Booking:   bookingMgr,
		Docs:      docs,
		DocRepo:   docRepo,
		Rabbit:    rabbit,
		Evaluator: evaluator,
	}
}
