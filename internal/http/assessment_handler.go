package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-advisor/internal/domain"
	"course-advisor/internal/service"
)

// AssessmentHandler mantiene dependencias para los endpoints de evaluacion.
type AssessmentHandler struct {
	logger *zap.Logger
	svc    *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, svc: svc}
}

// StartAssessment maneja POST /assessments.
func (h *AssessmentHandler) StartAssessment(c *gin.Context) {
	var req struct {
		UserID       string `json:"user_id"`
		MaxQuestions int    `json:"max_questions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid start assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.svc.StartSession(c.Request.Context(), req.UserID, req.MaxQuestions)
	if err != nil {
		h.writeError(c, err, "start assessment failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":     result.SessionID,
		"first_question": result.FirstQuestion,
		"max_questions":  result.MaxQuestions,
	})
}

// SubmitAnswer maneja POST /assessments/:id/answers.
func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		OptionID   string `json:"option_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.svc.Answer(c.Request.Context(), c.Param("id"), req.QuestionID, req.OptionID)
	if err != nil {
		h.writeError(c, err, "submit answer failed")
		return
	}

	if result.Complete {
		c.JSON(http.StatusOK, gin.H{"is_complete": true, "results": result.Results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_complete": false, "next_question": result.NextQuestion})
}

// FinishEarly maneja POST /assessments/:id/finish.
func (h *AssessmentHandler) FinishEarly(c *gin.Context) {
	results, err := h.svc.FinishEarly(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "finish early failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetResults maneja GET /assessments/:id/results.
func (h *AssessmentHandler) GetResults(c *gin.Context) {
	results, err := h.svc.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "get results failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// writeError mapea la taxonomia de errores del dominio a codigos HTTP.
func (h *AssessmentHandler) writeError(c *gin.Context, err error, logMsg string) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
