package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/schoolhub/schoolhub/internal/app/domain/admin"
	"github.com/schoolhub/schoolhub/internal/app/domain/auth"
	"github.com/schoolhub/schoolhub/internal/app/domain/student"
	"github.com/schoolhub/schoolhub/internal/app/domain/teacher"
	"github.com/schoolhub/schoolhub/internal/app/models"
	"github.com/schoolhub/schoolhub/internal/pkg/config"
)

type AppHandlers struct {
	Auth    *auth.AuthHandlers
	Student *student.Handler
	Teacher *teacher.Handler
	Admin   *admin.Handler
}

// Setup wires repositories, services and handlers, then registers the route
// table on the engine.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	handlers := setupDependencies(dbPool, cfg, log)
	setupRouter(r, handlers, dbPool, cfg)
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) *AppHandlers {
	slogLog := slog.Default()

	authRepo := auth.NewPostgresAuthRepo(dbPool, slogLog)
	authService := auth.NewAuthService(authRepo, cfg, slogLog)

	studentRepo := student.NewPostgresStudentRepo(dbPool, slogLog)
	studentService := student.NewService(studentRepo, cfg, slogLog)

	teacherRepo := teacher.NewPostgresTeacherRepo(dbPool, slogLog)
	teacherService := teacher.NewService(teacherRepo, cfg, slogLog)

	adminRepo := admin.NewPostgresAdminRepo(dbPool, slogLog)
	adminService := admin.NewService(adminRepo, cfg, slogLog)

	return &AppHandlers{
		Auth:    auth.NewAuthHandlers(authService, log),
		Student: student.NewHandler(studentService, log),
		Teacher: teacher.NewHandler(teacherService, log),
		Admin:   admin.NewHandler(adminService, log),
	}
}

func setupRouter(r *gin.Engine, handlers *AppHandlers, dbPool *pgxpool.Pool, cfg *config.Config) {
	jwtConfig := auth.JWTConfig{
		SecretKey:       cfg.JWT.SecretKey,
		TokenExpiration: cfg.JWT.AccessTokenTTL,
		Issuer:          cfg.JWT.Issuer,
		Audience:        cfg.JWT.Audience,
	}

	r.GET("/health", healthHandler(dbPool))

	api := r.Group("/api")
	api.POST("/login", handlers.Auth.Login)
	api.POST("/register", handlers.Auth.Register)
	api.POST("/refresh", handlers.Auth.Refresh)
	api.POST("/logout", handlers.Auth.Logout)

	authenticated := api.Group("", auth.RequireAuth(jwtConfig))
	authenticated.GET("/user", handlers.Auth.Me)

	studentRoutes := authenticated.Group("/student", auth.RequireRole(models.RoleStudent))
	studentRoutes.GET("/courses", handlers.Student.GetCourses)
	studentRoutes.GET("/attendance", handlers.Student.GetAttendance)

	teacherRoutes := authenticated.Group("/teacher", auth.RequireRole(models.RoleTeacher))
	teacherRoutes.GET("/courses", handlers.Teacher.GetCourses)
	teacherRoutes.GET("/upcoming-classes", handlers.Teacher.GetUpcomingClasses)

	adminRoutes := authenticated.Group("/admin", auth.RequireRole(models.RoleAdmin))
	adminRoutes.GET("/user-count", handlers.Admin.GetUserCount)
	adminRoutes.GET("/recent-courses", handlers.Admin.GetRecentCourses)
}

func healthHandler(dbPool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
