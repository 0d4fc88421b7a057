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

// EnrollmentHandler handles enrollment and progress endpoints for students.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll godoc
// POST /api/v1/student/enrollments
// Enrolls the student into a published course and unlocks its first lesson.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// Restart godoc
// POST /api/v1/student/courses/:course_id/restart
// Wipes progress, attempts and the certificate, then reseeds the course.
func (h *EnrollmentHandler) Restart(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.enrollmentService.Restart(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotEnrolled)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollment": enrollment})
}

// GetProgress godoc
// GET /api/v1/student/courses/:course_id/progress
// Returns per-lesson progress with the derived current lesson.
func (h *EnrollmentHandler) GetProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	progress, err := h.enrollmentService.Progress(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotEnrolled)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// ListEnrollments godoc
// GET /api/v1/student/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollments, err := h.enrollmentService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// GetLesson godoc
// GET /api/v1/student/lessons/:lesson_id
// Returns lesson content if the progression gate allows it.
func (h *EnrollmentHandler) GetLesson(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	lesson, progress, err := h.enrollmentService.Lesson(c.Request.Context(), claims.UserID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, service.ErrLessonLocked):
			response.Fail(c, http.StatusForbidden, response.ErrLessonLocked)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"lesson":   lesson,
		"progress": progress,
	})
}
