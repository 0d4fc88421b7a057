package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/handler"
	"github.com/lenteraedu/lentera-backend/internal/middleware"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/response"
	"github.com/lenteraedu/lentera-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Course      *handler.CourseHandler
	Enrollment  *handler.EnrollmentHandler
	Attempt     *handler.AttemptHandler
	Certificate *handler.CertificateHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/register", handlers.Auth.StudentRegister)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Catalog & lessons
		studentAPI.GET("/courses", handlers.Course.ListCatalog)
		studentAPI.GET("/courses/:course_id", handlers.Course.GetCourse)
		studentAPI.GET("/lessons/:lesson_id", handlers.Enrollment.GetLesson)

		// Enrollment & progress
		studentAPI.POST("/enrollments", handlers.Enrollment.Enroll)
		studentAPI.GET("/enrollments", handlers.Enrollment.ListEnrollments)
		studentAPI.GET("/courses/:course_id/progress", handlers.Enrollment.GetProgress)
		studentAPI.POST("/courses/:course_id/restart", handlers.Enrollment.Restart)

		// Quiz attempts
		studentAPI.POST("/quiz/attempt", handlers.Attempt.StartAttempt)
		studentAPI.GET("/quiz/attempt/:attempt_id", handlers.Attempt.GetAttempt)
		studentAPI.POST("/quiz/submit", handlers.Attempt.SubmitAttempt)
		studentAPI.GET("/quiz/:quiz_id/paper", handlers.Attempt.GetQuizPaper)

		// Certificates
		studentAPI.GET("/certificates", handlers.Certificate.ListMyCertificates)
		studentAPI.GET("/courses/:course_id/certificate", handlers.Certificate.GetCourseCertificate)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireStudentWSAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		ws.GET("/student/attempts/:attempt_id/countdown", handlers.WS.AttemptCountdownStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/courses",
			middleware.RequirePermission(model.PermissionCoursesWrite),
			handlers.Course.CreateCourse,
		)
		adminAPI.GET("/courses/:course_id",
			middleware.RequirePermission(model.PermissionCoursesRead),
			handlers.Course.GetCourse,
		)
		adminAPI.POST("/courses/:course_id/publish",
			middleware.RequirePermission(model.PermissionCoursesWrite),
			handlers.Course.PublishCourse,
		)
		adminAPI.POST("/courses/:course_id/modules",
			middleware.RequirePermission(model.PermissionCoursesWrite),
			handlers.Course.AddModule,
		)
		adminAPI.POST("/modules/:module_id/lessons",
			middleware.RequirePermission(model.PermissionCoursesWrite),
			handlers.Course.AddLesson,
		)
		adminAPI.POST("/courses/:course_id/quizzes",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Course.CreateQuiz,
		)
		adminAPI.POST("/quizzes/:quiz_id/questions",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Course.AddQuestion,
		)
		adminAPI.GET("/attempts/:attempt_id",
			middleware.RequirePermission(model.PermissionAttemptsRead),
			handlers.Attempt.GetAttemptAsAdmin,
		)
	}

	return router
}
