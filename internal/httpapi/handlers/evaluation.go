package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kishor978/RAG-System/internal/chunking"
	"github.com/Kishor978/RAG-System/internal/common"
	"github.com/Kishor978/RAG-System/internal/evaluation"
)

// evaluationTimeout bounds one background evaluation run.
const evaluationTimeout = 10 * time.Minute

type runEvaluationReq struct {
	Documents  []evaluation.Document  `json:"documents" binding:"required"`
	Queries    []evaluation.TestQuery `json:"test_queries" binding:"required"`
	Methods    []string               `json:"chunking_methods"`
	Algorithms []string               `json:"similarity_algorithms"`
}

// RunEvaluation starts a chunking/similarity benchmark in the background
// and returns an evaluation id to poll. The finished report is written
// under the evaluation data dir as markdown plus JSON.
func (h *Handler) RunEvaluation(c *gin.Context) {
	var req runEvaluationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10030, "invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		common.Fail(c, http.StatusBadRequest, 10031, "documents must not be empty")
		return
	}
	if len(req.Queries) == 0 {
		common.Fail(c, http.StatusBadRequest, 10032, "test_queries must not be empty")
		return
	}
	methods := make([]chunking.Strategy, 0, len(req.Methods))
	for _, m := range req.Methods {
		s := chunking.Strategy(m)
		switch s {
		case chunking.StrategyFixedSize, chunking.StrategyRecursive:
			methods = append(methods, s)
		default:
			common.Fail(c, http.StatusBadRequest, 10033, fmt.Sprintf("unknown chunking method %q", m))
			return
		}
	}

	evaluationID := uuid.NewString()
	go h.runEvaluation(evaluationID, req, methods)

	common.OK(c, gin.H{
		"evaluation_id": evaluationID,
		"status":        "in_progress",
	})
}

func (h *Handler) runEvaluation(id string, req runEvaluationReq, methods []chunking.Strategy) {
	ctx, cancel := context.WithTimeout(context.Background(), evaluationTimeout)
	defer cancel()

	report, err := h.Evaluator.Run(ctx, req.Documents, req.Queries, methods, req.Algorithms)
	if err != nil {
		log.Printf("[RunEvaluation] id=%s err=%v", id, err)
		h.writeEvaluationFile(evaluationErrorName(id), []byte(err.Error()))
		return
	}

	if data, err := json.MarshalIndent(report, "", "  "); err == nil {
		h.writeEvaluationFile(evaluationJSONName(id), data)
	}
	// Markdown last: its presence is what flips the status to completed.
	h.writeEvaluationFile(evaluationReportName(id), []byte(report.Markdown()))
	log.Printf("[RunEvaluation] id=%s done best=%s+%s f1=%.4f",
		id, report.Best.ChunkingMethod, report.Best.SimilarityAlgorithm, report.Best.F1Score)
}

// GetEvaluation reports the state of a background evaluation from its
// report files: markdown present means completed, an error file means
// failed, neither means still running.
func (h *Handler) GetEvaluation(c *gin.Context) {
	id := c.Param("evaluation_id")
	if _, err := uuid.Parse(id); err != nil {
		common.Fail(c, http.StatusBadRequest, 10034, "invalid evaluation id")
		return
	}

	dir := h.Cfg.EvaluationDataDir
	if report, err := os.ReadFile(filepath.Join(dir, evaluationReportName(id))); err == nil {
		common.OK(c, gin.H{
			"evaluation_id": id,
			"status":        "completed",
			"report":        string(report),
		})
		return
	}
	if msg, err := os.ReadFile(filepath.Join(dir, evaluationErrorName(id))); err == nil {
		common.OK(c, gin.H{
			"evaluation_id": id,
			"status":        "failed",
			"error":         string(msg),
		})
		return
	}
	common.OK(c, gin.H{
		"evaluation_id": id,
		"status":        "in_progress",
	})
}

func (h *Handler) writeEvaluationFile(name string, data []byte) {
	dir := h.Cfg.EvaluationDataDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[RunEvaluation] mkdir %s: %v", dir, err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		log.Printf("[RunEvaluation] write %s: %v", name, err)
	}
}

func evaluationReportName(id string) string { return fmt.Sprintf("evaluation_report_%s.md", id) }
func evaluationJSONName(id string) string   { return fmt.Sprintf("evaluation_report_%s.json", id) }
func evaluationErrorName(id string) string  { return fmt.Sprintf("evaluation_error_%s.txt", id) }
