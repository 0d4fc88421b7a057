package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// OrderedLesson is a lesson annotated with its absolute position in the
// course (module order first, lesson order second).
type OrderedLesson struct {
	model.Lesson
	ModuleTitle string `json:"module_title"`
	Position    int    `json:"position"`
}

// CourseRepository handles course, module and lesson data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description)
		 VALUES ($1, $2)
		 RETURNING id, is_published, created_at, updated_at`,
		c.Title, c.Description,
	).Scan(&c.ID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, is_published, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListPublished retrieves all published courses.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, is_published, created_at, updated_at
		 FROM courses WHERE is_published ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Publish marks a course as published.
func (r *CourseRepository) Publish(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET is_published = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// CreateModule inserts a new module for a course.
func (r *CourseRepository) CreateModule(ctx context.Context, m *model.CourseModule) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO course_modules (course_id, title, order_num)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		m.CourseID, m.Title, m.OrderNum,
	).Scan(&m.ID)
}

// CreateLesson inserts a new lesson for a module.
func (r *CourseRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lessons (module_id, title, content, order_num)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		l.ModuleID, l.Title, l.Content, l.OrderNum,
	).Scan(&l.ID)
}

// GetLesson retrieves a lesson by ID.
func (r *CourseRepository) GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	l := &model.Lesson{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, module_id, title, content, order_num
		 FROM lessons WHERE id = $1`, id,
	).Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.OrderNum)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetModule retrieves a module by ID.
func (r *CourseRepository) GetModule(ctx context.Context, id uuid.UUID) (*model.CourseModule, error) {
	m := &model.CourseModule{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, order_num
		 FROM course_modules WHERE id = $1`, id,
	).Scan(&m.ID, &m.CourseID, &m.Title, &m.OrderNum)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListLessonsInOrder retrieves all lessons of a course in progression order:
// module order first, lesson order within the module second.
func (r *CourseRepository) ListLessonsInOrder(ctx context.Context, courseID uuid.UUID) ([]OrderedLesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.id, l.module_id, l.title, l.content, l.order_num, m.title,
		        ROW_NUMBER() OVER (ORDER BY m.order_num, l.order_num)
		 FROM lessons l
		 JOIN course_modules m ON l.module_id = m.id
		 WHERE m.course_id = $1
		 ORDER BY m.order_num, l.order_num`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []OrderedLesson
	for rows.Next() {
		var l OrderedLesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.OrderNum, &l.ModuleTitle, &l.Position); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// NextLessonID returns the lesson immediately following the given lesson in
// course order, or pgx.ErrNoRows if it is the last lesson.
func (r *CourseRepository) NextLessonID(ctx context.Context, courseID, lessonID uuid.UUID) (uuid.UUID, error) {
	var next uuid.UUID
	err := r.pool.QueryRow(ctx,
		`WITH ordered AS (
			SELECT l.id, ROW_NUMBER() OVER (ORDER BY m.order_num, l.order_num) AS rn
			FROM lessons l
			JOIN course_modules m ON l.module_id = m.id
			WHERE m.course_id = $1
		 )
		 SELECT nxt.id
		 FROM ordered cur
		 JOIN ordered nxt ON nxt.rn = cur.rn + 1
		 WHERE cur.id = $2`, courseID, lessonID,
	).Scan(&next)
	return next, err
}

// CourseIDByLesson resolves the course a lesson belongs to.
func (r *CourseRepository) CourseIDByLesson(ctx context.Context, lessonID uuid.UUID) (uuid.UUID, error) {
	var courseID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT m.course_id
		 FROM lessons l
		 JOIN course_modules m ON l.module_id = m.id
		 WHERE l.id = $1`, lessonID,
	).Scan(&courseID)
	return courseID, err
}
