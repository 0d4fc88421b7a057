package model

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a published or draft course.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseModule groups lessons inside a course. Module order and lesson order
// together define the total lesson ordering an enrollment progresses through.
type CourseModule struct {
	ID       uuid.UUID `json:"id"`
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	OrderNum int       `json:"order_num"`
}

// Lesson is a single unit of course material, optionally gated by a quiz.
type Lesson struct {
	ID       uuid.UUID `json:"id"`
	ModuleID uuid.UUID `json:"module_id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	OrderNum int       `json:"order_num"`
}

// CreateCourseRequest is the payload for creating a new course.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=5000"`
}

// CreateModuleRequest is the payload for adding a module to a course.
type CreateModuleRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	OrderNum int    `json:"order_num" binding:"min=0"`
}

// CreateLessonRequest is the payload for adding a lesson to a module.
type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	Content  string `json:"content" binding:"max=100000"`
	OrderNum int    `json:"order_num" binding:"min=0"`
}
