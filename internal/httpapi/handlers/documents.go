package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kishor978/RAG-System/internal/chunking"
	"github.com/Kishor978/RAG-System/internal/common"
	"github.com/Kishor978/RAG-System/internal/document"
)

// maxUploadBytes caps document uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadDocument accepts a multipart text file, records a queued ingest
// job and enqueues it for the worker. Chunking and embedding happen
// asynchronously; poll the returned job id for progress.
func (h *Handler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10010, "file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		common.Fail(c, http.StatusRequestEntityTooLarge, 10011, "file too large")
		return
	}

	strategy := strings.TrimSpace(c.PostForm("strategy"))
	if strategy == "" {
		strategy = h.Cfg.ChunkingStrategy
	}
	switch chunking.Strategy(strategy) {
	case chunking.StrategyFixedSize, chunking.StrategyRecursive:
	default:
		common.Fail(c, http.StatusBadRequest, 10012, "unknown chunking strategy")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50010, "failed to read upload")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50010, "failed to read upload")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || strings.HasSuffix(fileHeader.Filename, ".txt") {
		contentType = "text/plain"
	}
	text, err := document.ExtractText(content, contentType)
	if err != nil {
		common.Fail(c, http.StatusUnsupportedMediaType, 10013, "unsupported file type")
		return
	}
	if chunking.Normalize(text) == "" {
		common.Fail(c, http.StatusBadRequest, 10014, "document contains no text")
		return
	}

	jobID, err := common.NewULID()
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50011, "internal error")
		return
	}
	docID, err := common.NewULID()
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50011, "internal error")
		return
	}

	job := &document.IngestJob{
		ID:         jobID,
		DocumentID: docID,
		Filename:   fileHeader.Filename,
		Strategy:   strategy,
		RawText:    text,
		Status:     document.JobQueued,
	}
	if err := h.DocRepo.CreateJob(c.Request.Context(), job); err != nil {
		log.Printf("[UploadDocument] create job failed job=%s err=%v", jobID, err)
		common.Fail(c, http.StatusInternalServerError, 50011, "internal error")
		return
	}

	if err := h.Rabbit.PublishJob(c.Request.Context(), jobID); err != nil {
		log.Printf("[UploadDocument] publish failed job=%s err=%v", jobID, err)
		common.Fail(c, http.StatusInternalServerError, 50012, "enqueue failed")
		return
	}

	common.OK(c, gin.H{
		"job_id":      jobID,
		"document_id": docID,
		"status":      document.JobQueued,
	})
}

func (h *Handler) GetIngestJob(c *gin.Context) {
	jobID := c.Param("job_id")
	job, err := h.DocRepo.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40405, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50013, "internal error")
		return
	}

	common.OK(c, gin.H{
		"job": gin.H{
			"id":          job.ID,
			"document_id": job.DocumentID,
			"filename":    job.Filename,
			"status":      job.Status,
			"error":       job.Error,
			"created_at":  job.CreatedAt,
			"updated_at":  job.UpdatedAt,
		},
	})
}

func (h *Handler) ListDocuments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	docs, err := h.DocRepo.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50013, "internal error")
		return
	}
	common.OK(c, gin.H{"documents": docs})
}

func (h *Handler) GetDocument(c *gin.Context) {
	docID := c.Param("document_id")
	doc, err := h.DocRepo.GetByDocumentID(c.Request.Context(), docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40406, "document not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50013, "internal error")
		return
	}
	common.OK(c, gin.H{"document": doc})
}

// DeleteDocument drops the document's vectors and its metadata row.
func (h *Handler) DeleteDocument(c *gin.Context) {
	docID := c.Param("document_id")
	if _, err := h.DocRepo.GetByDocumentID(c.Request.Context(), docID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40406, "document not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50013, "internal error")
		return
	}

	if err := h.Docs.Delete(c.Request.Context(), docID); err != nil {
		log.Printf("[DeleteDocument] delete failed document=%s err=%v", docID, err)
		common.Fail(c, http.StatusInternalServerError, 50014, "failed to delete document")
		return
	}
	common.OK(c, gin.H{"deleted": true})
}
