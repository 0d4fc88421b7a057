package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/response"
	"github.com/lenteraedu/lentera-backend/internal/service"
	"github.com/lenteraedu/lentera-backend/internal/validator"
)

// CourseHandler handles course authoring (admin) and catalog (student)
// endpoints.
type CourseHandler struct {
	courseService *service.CourseService
	quizService   *service.QuizService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, quizService *service.QuizService) *CourseHandler {
	return &CourseHandler{courseService: courseService, quizService: quizService}
}

// CreateCourse godoc
// POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// PublishCourse godoc
// POST /api/v1/admin/courses/:course_id/publish
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.Publish(c.Request.Context(), courseID); err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
		case errors.Is(err, service.ErrCourseEmpty):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AddModule godoc
// POST /api/v1/admin/courses/:course_id/modules
func (h *CourseHandler) AddModule(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateModuleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	module, err := h.courseService.AddModule(c.Request.Context(), courseID, req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"module": module})
}

// AddLesson godoc
// POST /api/v1/admin/modules/:module_id/lessons
// New lessons are backfilled as LOCKED onto existing enrollments.
func (h *CourseHandler) AddLesson(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("module_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lesson, err := h.courseService.AddLesson(c.Request.Context(), moduleID, req)
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lesson": lesson})
}

// CreateQuiz godoc
// POST /api/v1/admin/courses/:course_id/quizzes
// A payload without lesson_id creates the course's final quiz.
func (h *CourseHandler) CreateQuiz(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), courseID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
		case errors.Is(err, service.ErrLessonNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrLessonNotInCourse):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		case errors.Is(err, service.ErrFinalQuizExists), errors.Is(err, service.ErrLessonQuizExists):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// AddQuestion godoc
// POST /api/v1/admin/quizzes/:quiz_id/questions
func (h *CourseHandler) AddQuestion(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.quizService.AddQuestion(c.Request.Context(), quizID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		case errors.Is(err, service.ErrInvalidQuestion):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload,
				map[string]string{"detail": err.Error()})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ListCatalog godoc
// GET /api/v1/student/courses
// Lists published courses.
func (h *CourseHandler) ListCatalog(c *gin.Context) {
	courses, err := h.courseService.Catalog(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/student/courses/:course_id
// Returns a course with its lesson outline in course order.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	course, lessons, err := h.courseService.Get(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"course":  course,
		"lessons": lessons,
	})
}
