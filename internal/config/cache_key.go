package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// AttemptDeadlineKey returns the cache key for a quiz attempt's submission deadline
func (r *CacheKeyStruct) AttemptDeadlineKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:deadline", attemptID)
}

// QuizPaperKey returns the cache key for a quiz's student-facing paper
func (r *CacheKeyStruct) QuizPaperKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:paper", quizID)
}

var CacheKey = NewCacheKeyStruct()
