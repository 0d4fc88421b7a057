package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/middleware"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/response"
	"github.com/lenteraedu/lentera-backend/internal/service"
	"github.com/lenteraedu/lentera-backend/internal/validator"
)

// AttemptHandler handles quiz attempt endpoints for students.
type AttemptHandler struct {
	attemptService *service.AttemptService
	quizService    *service.QuizService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, quizService *service.QuizService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, quizService: quizService}
}

// StartAttempt godoc
// POST /api/v1/student/quiz/attempt
// Starts a new attempt, or resumes the open one if its clock is still running.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.attemptService.Start(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": view})
}

// GetAttempt godoc
// GET /api/v1/student/quiz/attempt/:attempt_id
// Returns the attempt with its remaining time; expired attempts come back
// finalized as FAILED.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.attemptService.Inspect(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": view})
}

// SubmitAttempt godoc
// POST /api/v1/student/quiz/submit
// Grades the answers, closes the attempt and returns the result.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetAttemptAsAdmin godoc
// GET /api/v1/admin/attempts/:attempt_id
// Returns any student's attempt for back-office review.
func (h *AttemptHandler) GetAttemptAsAdmin(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.attemptService.InspectAsAdmin(c.Request.Context(), attemptID)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": view})
}

// GetQuizPaper godoc
// GET /api/v1/student/quiz/:quiz_id/paper
// Delivers the answer-stripped question set; requires an open attempt.
func (h *AttemptHandler) GetQuizPaper(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.quizService.Paper(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// failAttemptError maps attempt lifecycle errors onto HTTP status + error
// codes.
func failAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrAttemptAccessDenied):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrEnrollmentIDRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrEnrollmentRequired)
	case errors.Is(err, service.ErrEnrollmentMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrEnrollmentMismatch)
	case errors.Is(err, service.ErrQuizHasNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrQuizHasNoQuestions)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrLessonLocked):
		response.Fail(c, http.StatusForbidden, response.ErrLessonLocked)
	case errors.Is(err, service.ErrLessonCompleted):
		response.Fail(c, http.StatusConflict, response.ErrLessonAlreadyCompleted)
	case errors.Is(err, service.ErrFinalNotStartable):
		response.Fail(c, http.StatusForbidden, response.ErrFinalNotStartable)
	case errors.Is(err, service.ErrFinalAlreadyPassed):
		response.Fail(c, http.StatusConflict, response.ErrFinalAlreadyPassed)
	case errors.Is(err, service.ErrAttemptLimitReached):
		response.Fail(c, http.StatusConflict, response.ErrAttemptLimitReached)
	case errors.Is(err, service.ErrAttemptNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotInProgress)
	case errors.Is(err, service.ErrAttemptExpired):
		response.Fail(c, http.StatusConflict, response.ErrAttemptExpired)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
