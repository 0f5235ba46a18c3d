package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"faqrag/src/core/evaluation"
	"faqrag/src/core/faq"
	"faqrag/src/log"
)

type Handler struct {
	pipeline  *faq.Pipeline
	evaluator *evaluation.Evaluator
	defaultK  int
	timeout   time.Duration
}

func NewHandler(pipeline *faq.Pipeline, evaluator *evaluation.Evaluator, defaultK int, timeout time.Duration) *Handler {
	return &Handler{
		pipeline:  pipeline,
		evaluator: evaluator,
		defaultK:  defaultK,
		timeout:   timeout,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	v1.POST("/questions", h.AskQuestion)
	v1.POST("/evaluations", h.EvaluateAnswer)
	v1.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendError(c *gin.Context, status int, err error) {
	var code string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = "TIMEOUT"
		status = http.StatusGatewayTimeout
	case errors.Is(err, faq.ErrInvalidConfig):
		code = "INVALID_REQUEST"
		status = http.StatusBadRequest
	case errors.Is(err, evaluation.ErrMalformedAnswer):
		code = "INVALID_REQUEST"
		status = http.StatusBadRequest
	case errors.Is(err, faq.ErrIndexUnavailable):
		code = "INDEX_UNAVAILABLE"
		status = http.StatusServiceUnavailable
	case errors.Is(err, faq.ErrRetrieval):
		code = "RETRIEVAL_FAILED"
		status = http.StatusBadGateway
	case errors.Is(err, faq.ErrGeneratorUnavailable):
		code = "GENERATOR_UNAVAILABLE"
		status = http.StatusBadGateway
	case status == http.StatusBadRequest:
		// Binding and other caller-side failures keep their 400 and are
		// never reported as internal.
		code = "INVALID_REQUEST"
	default:
		code = "INTERNAL_ERROR"
		if status == 0 {
			status = http.StatusInternalServerError
		}
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

type questionRequest struct {
	Question string `json:"question" binding:"required"`
	K        int    `json:"k"`
	Evaluate bool   `json:"evaluate"`
}

type questionResponse struct {
	RequestID  string              `json:"request_id"`
	Answer     *faq.AnswerResponse `json:"answer"`
	Evaluation *evaluation.Report  `json:"evaluation,omitempty"`
}

// AskQuestion runs the full answer pipeline for one question and
// optionally scores the result in the same response.
func (h *Handler) AskQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}
	if req.K <= 0 {
		req.K = h.defaultK
	}

	requestID := uuid.New().String()
	logger := log.WithValues("request_id", requestID, "k", req.K)
	logger.Info("answering question")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	answer, err := h.pipeline.Answer(ctx, req.Question, req.K)
	if err != nil {
		logger.Error(err, "pipeline failed")
		sendError(c, 0, err)
		return
	}

	resp := questionResponse{
		RequestID: requestID,
		Answer:    answer,
	}
	if req.Evaluate {
		report := h.evaluator.Evaluate(*answer)
		resp.Evaluation = &report
	}

	c.JSON(http.StatusOK, resp)
}

// EvaluateAnswer scores a previously produced answer without rerunning
// retrieval or generation.
func (h *Handler) EvaluateAnswer(c *gin.Context) {
	var answer faq.AnswerResponse
	if err := c.ShouldBindJSON(&answer); err != nil {
		sendError(c, http.StatusBadRequest, evaluation.ErrMalformedAnswer)
		return
	}

	report := h.evaluator.Evaluate(answer)
	c.JSON(http.StatusOK, report)
}

func (h *Handler) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
