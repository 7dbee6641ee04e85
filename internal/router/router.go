package router

import (
	"net/http"
	"time"

	"github.com/examdesk/examdesk-backend/internal/config"
	"github.com/examdesk/examdesk-backend/internal/handler"
	"github.com/examdesk/examdesk-backend/internal/middleware"
	"github.com/examdesk/examdesk-backend/internal/response"
	"github.com/examdesk/examdesk-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Portal  *handler.PortalHandler
	Exam    *handler.ExamHandler
	Student *handler.StudentHandler
	Board   *handler.BoardHandler
	Seating *handler.SeatingHandler
	WS      *handler.WSHandler
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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	// Notices, timetable, and the seating plan are readable without an
	// account; they hang on the hallway wall in the physical school too.
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/notices", handlers.Board.ListNotices)
		publicAPI.GET("/timetable", handlers.Board.ListTimetable)
		publicAPI.GET("/seating", handlers.Seating.Get)
	}

	// Rate limiter for auth routes, allowance per minute from config.
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)
	}

	// Authenticated profile routes, any role.
	me := router.Group("/api/v1/me")
	me.Use(middleware.RequireAuth(authService))
	{
		me.GET("", handlers.Auth.Me)
		me.PUT("", handlers.Auth.UpdateMe)
	}

	// ─── 2. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudent(authService))
	{
		studentAPI.GET("/dashboard", handlers.Portal.Dashboard)
		studentAPI.GET("/attempts", handlers.Portal.Attempts)
		studentAPI.POST("/exams/:exam_id/start", handlers.Portal.StartExam)
		studentAPI.GET("/exams/:exam_id/paper", handlers.Portal.Paper)
		studentAPI.GET("/exams/:exam_id/state", handlers.Portal.State)
		studentAPI.POST("/exams/:exam_id/answer", handlers.Portal.Answer)
		studentAPI.POST("/exams/:exam_id/navigate", handlers.Portal.Navigate)
		studentAPI.POST("/exams/:exam_id/submit", handlers.Portal.Submit)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/student/exams/:exam_id/stream", handlers.WS.ExamStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdmin(authService))
	{
		// Exam management
		adminAPI.GET("/exams", handlers.Exam.List)
		adminAPI.POST("/exams", handlers.Exam.Create)
		adminAPI.GET("/exams/:exam_id", handlers.Exam.Get)
		adminAPI.DELETE("/exams/:exam_id", handlers.Exam.Delete)
		adminAPI.GET("/attempts", handlers.Exam.Attempts)

		// Student management
		adminAPI.GET("/students", handlers.Student.List)
		adminAPI.DELETE("/students/:id", handlers.Student.Delete)

		// Notice board
		adminAPI.POST("/notices", handlers.Board.CreateNotice)
		adminAPI.DELETE("/notices/:id", handlers.Board.DeleteNotice)

		// Timetable
		adminAPI.POST("/timetable", handlers.Board.CreateTimetableEntry)
		adminAPI.DELETE("/timetable/:id", handlers.Board.DeleteTimetableEntry)

		// Seating
		adminAPI.POST("/seating/generate", handlers.Seating.Generate)
	}

	return router
}
