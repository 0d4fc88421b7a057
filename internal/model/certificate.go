package model

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is the reference issued for a passed final quiz attempt.
// One per (student, course).
type Certificate struct {
	ID           uuid.UUID `json:"id"`
	StudentID    int       `json:"student_id"`
	CourseID     uuid.UUID `json:"course_id"`
	AttemptID    uuid.UUID `json:"attempt_id"`
	SerialNumber string    `json:"serial_number"`
	IssuedAt     time.Time `json:"issued_at"`
}
