package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// QuizRepository handles quiz, question and option data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (course_id, lesson_id, is_final, title, passing_score, attempt_limit, time_limit_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		q.CourseID, q.LessonID, q.IsFinal, q.Title, q.PassingScore, q.AttemptLimit, q.TimeLimitMinutes,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by ID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, lesson_id, is_final, title, passing_score, attempt_limit, time_limit_minutes, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.CourseID, &q.LessonID, &q.IsFinal, &q.Title, &q.PassingScore, &q.AttemptLimit, &q.TimeLimitMinutes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByLesson retrieves the quiz bound to a lesson, if any.
func (r *QuizRepository) GetByLesson(ctx context.Context, lessonID uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, lesson_id, is_final, title, passing_score, attempt_limit, time_limit_minutes, created_at, updated_at
		 FROM quizzes WHERE lesson_id = $1`, lessonID,
	).Scan(&q.ID, &q.CourseID, &q.LessonID, &q.IsFinal, &q.Title, &q.PassingScore, &q.AttemptLimit, &q.TimeLimitMinutes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetFinalByCourse retrieves the course's final quiz, if any.
func (r *QuizRepository) GetFinalByCourse(ctx context.Context, courseID uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, lesson_id, is_final, title, passing_score, attempt_limit, time_limit_minutes, created_at, updated_at
		 FROM quizzes WHERE course_id = $1 AND is_final`, courseID,
	).Scan(&q.ID, &q.CourseID, &q.LessonID, &q.IsFinal, &q.Title, &q.PassingScore, &q.AttemptLimit, &q.TimeLimitMinutes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// FinalExists reports whether the course already has a final quiz.
func (r *QuizRepository) FinalExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM quizzes WHERE course_id = $1 AND is_final)`, courseID,
	).Scan(&exists)
	return exists, err
}

// AddQuestion inserts a question with its options in one transaction.
func (r *QuizRepository) AddQuestion(ctx context.Context, q *model.Question, options []model.OptionInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO questions (quiz_id, question_text, question_type, metadata, order_num)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		q.QuizID, q.QuestionText, q.QuestionType, q.Metadata, q.OrderNum,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	for i, opt := range options {
		_, err = tx.Exec(ctx,
			`INSERT INTO question_options (question_id, option_text, is_correct, order_num)
			 VALUES ($1, $2, $3, $4)`,
			q.ID, opt.OptionText, opt.IsCorrect, i,
		)
		if err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListQuestions retrieves all questions of a quiz, ordered by order_num.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, question_text, question_type, metadata, order_num
		 FROM questions WHERE quiz_id = $1
		 ORDER BY order_num`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.QuestionType, &q.Metadata, &q.OrderNum); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListOptions retrieves the options of all questions of a quiz, grouped by
// question ID.
func (r *QuizRepository) ListOptions(ctx context.Context, quizID uuid.UUID) (map[uuid.UUID][]model.Option, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.question_id, o.option_text, o.is_correct, o.order_num
		 FROM question_options o
		 JOIN questions q ON o.question_id = q.id
		 WHERE q.quiz_id = $1
		 ORDER BY o.question_id, o.order_num`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make(map[uuid.UUID][]model.Option)
	for rows.Next() {
		var o model.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.OptionText, &o.IsCorrect, &o.OrderNum); err != nil {
			return nil, err
		}
		options[o.QuestionID] = append(options[o.QuestionID], o)
	}
	return options, rows.Err()
}

// CountQuestions returns the number of questions in a quiz.
func (r *QuizRepository) CountQuestions(ctx context.Context, quizID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE quiz_id = $1`, quizID,
	).Scan(&count)
	return count, err
}
