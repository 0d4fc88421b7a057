package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/database"
	"github.com/lenteraedu/lentera-backend/internal/logger"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/lenteraedu/lentera-backend/internal/service"
	"github.com/rs/zerolog"
)

// Seeds a demo course with two lessons, lesson quizzes and a final quiz,
// plus one student account (demo@lentera.id / password123).
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)

	authService := service.NewAuthService(cfg, nil)

	// ─── Student ───────────────────────────────────────────────────────
	hash, err := authService.HashPassword("password123")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}
	student := &model.Student{Name: "Siswa Demo", Email: "demo@lentera.id"}
	if err := studentRepo.Create(ctx, student, hash); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo student")
	}

	// ─── Course ────────────────────────────────────────────────────────
	course := &model.Course{
		Title:       "Dasar-Dasar Go",
		Description: "Pengenalan bahasa pemrograman Go untuk pemula.",
	}
	if err := courseRepo.Create(ctx, course); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}

	module := &model.CourseModule{CourseID: course.ID, Title: "Pengenalan", OrderNum: 0}
	if err := courseRepo.CreateModule(ctx, module); err != nil {
		log.Fatal().Err(err).Msg("Failed to create module")
	}

	lessonTitles := []string{"Sintaks Dasar", "Tipe Data"}
	lessons := make([]*model.Lesson, 0, len(lessonTitles))
	for i, title := range lessonTitles {
		lesson := &model.Lesson{
			ModuleID: module.ID,
			Title:    title,
			Content:  fmt.Sprintf("Materi %s.", title),
			OrderNum: i,
		}
		if err := courseRepo.CreateLesson(ctx, lesson); err != nil {
			log.Fatal().Err(err).Msg("Failed to create lesson")
		}
		lessons = append(lessons, lesson)
	}

	// ─── Lesson quizzes ────────────────────────────────────────────────
	for _, lesson := range lessons {
		quiz := &model.Quiz{
			CourseID:         course.ID,
			LessonID:         &lesson.ID,
			Title:            fmt.Sprintf("Kuis: %s", lesson.Title),
			PassingScore:     70,
			AttemptLimit:     3,
			TimeLimitMinutes: 10,
		}
		if err := quizRepo.Create(ctx, quiz); err != nil {
			log.Fatal().Err(err).Msg("Failed to create lesson quiz")
		}
		seedQuestions(ctx, log, quizRepo, quiz.ID)
	}

	// ─── Final quiz ────────────────────────────────────────────────────
	final := &model.Quiz{
		CourseID:         course.ID,
		IsFinal:          true,
		Title:            "Ujian Akhir: Dasar-Dasar Go",
		PassingScore:     75,
		AttemptLimit:     2,
		TimeLimitMinutes: 20,
	}
	if err := quizRepo.Create(ctx, final); err != nil {
		log.Fatal().Err(err).Msg("Failed to create final quiz")
	}
	seedQuestions(ctx, log, quizRepo, final.ID)

	if err := courseRepo.Publish(ctx, course.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish course")
	}

	fmt.Printf("Seeded course %s with %d lessons. Student login: demo@lentera.id / password123\n",
		course.ID, len(lessons))
}

func seedQuestions(ctx context.Context, log zerolog.Logger, quizRepo *repository.QuizRepository, quizID uuid.UUID) {
	questions := []struct {
		q       model.Question
		options []model.OptionInput
	}{
		{
			q: model.Question{
				QuizID:       quizID,
				QuestionText: "Go dikembangkan oleh Google.",
				QuestionType: model.QuestionTypeTrueFalse,
				OrderNum:     0,
			},
			options: []model.OptionInput{
				{OptionText: "Benar", IsCorrect: true},
				{OptionText: "Salah"},
			},
		},
		{
			q: model.Question{
				QuizID:       quizID,
				QuestionText: "Berapa hasil 6 x 7?",
				QuestionType: model.QuestionTypeNumerical,
				Metadata:     json.RawMessage(`{"correct": 42, "tolerance": 0}`),
				OrderNum:     1,
			},
		},
		{
			q: model.Question{
				QuizID:       quizID,
				QuestionText: "Pilih kata kunci Go yang valid.",
				QuestionType: model.QuestionTypeMultiSelect,
				OrderNum:     2,
			},
			options: []model.OptionInput{
				{OptionText: "func", IsCorrect: true},
				{OptionText: "defer", IsCorrect: true},
				{OptionText: "lambda"},
				{OptionText: "begin"},
			},
		},
	}

	for _, item := range questions {
		q := item.q
		if err := quizRepo.AddQuestion(ctx, &q, item.options); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed question")
		}
	}
}
