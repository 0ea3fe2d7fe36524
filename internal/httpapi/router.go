package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kishor978/RAG-System/internal/common"
	"github.com/Kishor978/RAG-System/internal/config"
	"github.com/Kishor978/RAG-System/internal/httpapi/handlers"
	"github.com/Kishor978/RAG-System/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	r.GET("/ping", h.Ping)

	// users
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUserByID)
	r.POST("/login", h.Login)

	// conversational turns
	r.POST("/chat", h.Chat)
	r.GET("/conversations/:conversation_id", h.GetConversation)
	r.DELETE("/conversations/:conversation_id", h.DeleteConversation)
	r.GET("/conversations/:conversation_id/bookings", h.ListConversationBookings)
	r.POST("/bookings", h.CreateBooking)

	// document ingestion (JWT required)
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)
	authGroup.POST("/documents", h.UploadDocument)
	authGroup.GET("/documents", h.ListDocuments)
	authGroup.GET("/documents/:document_id", h.GetDocument)
	authGroup.DELETE("/documents/:document_id", h.DeleteDocument)
	authGroup.GET("/jobs/:job_id", h.GetIngestJob)

	// retrieval evaluation (JWT required)
	authGroup.POST("/evaluation/evaluate", h.RunEvaluation)
	authGroup.GET("/evaluation/evaluate/:evaluation_id", h.GetEvaluation)

	return r
}
