package api

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/metrics"
	"alcyxob/routine-tracker/internal/repository"
	"alcyxob/routine-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dependencies groups everything the HTTP layer needs.
type Dependencies struct {
	Tokens                 service.TokenService
	Users                  repository.UserRepository
	AuthService            service.AuthService
	UserService            service.UserService
	RoutineService         service.RoutineService
	TrainingProgramService service.TrainingProgramService
	ProgressService        service.ProgressService

	Metrics        *metrics.Manager
	MetricsHandler http.Handler // served on /metrics when set

	// RateLimiter guards register and login. Nil disables limiting.
	RateLimiter   RequestRateLimiter
	AuthPerMinute int

	SecureCookies bool
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	useJSONFieldNames()

	authHandler := NewAuthHandler(deps.AuthService, deps.Tokens.Expiration(), deps.SecureCookies, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService)
	routineHandler := NewRoutineHandler(deps.RoutineService, deps.Metrics)
	programHandler := NewTrainingProgramHandler(deps.TrainingProgramService, deps.Metrics)
	progressHandler := NewProgressHandler(deps.ProgressService)

	authMiddleware := AuthMiddleware(deps.Tokens, deps.Users)

	router.Use(RequestLogger(), RequestMetrics(deps.Metrics))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		credentials := authGroup.Group("")
		if deps.RateLimiter != nil {
			credentials.Use(RateLimit(deps.RateLimiter, "auth", deps.AuthPerMinute, deps.Metrics))
		}
		credentials.POST("/register", authHandler.Register)
		credentials.POST("/login", authHandler.Login)

		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/profile", authMiddleware, authHandler.Profile)
		authGroup.GET("/check-status", authMiddleware, authHandler.CheckStatus)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		routines := protected.Group("/routines")
		{
			routines.GET("", routineHandler.ListRoutines)
			routines.POST("", routineHandler.CreateRoutine)
			routines.GET("/:id", routineHandler.GetRoutine)
			routines.PATCH("/:id", routineHandler.UpdateRoutine)
			routines.DELETE("/:id", routineHandler.DeleteRoutine)
			routines.POST("/:id/videos", routineHandler.RequestVideoUpload)
			routines.GET("/:id/videos", routineHandler.ListVideoLinks)
		}

		progress := protected.Group("/progress")
		{
			progress.GET("/volume", progressHandler.VolumeByDay)
			progress.GET("/exercises/:name", progressHandler.ExerciseProgress)
		}

		programs := protected.Group("/training-programs")
		{
			authors := RoleMiddleware(domain.RoleProfessor, domain.RoleAdmin)
			programs.POST("", authors, programHandler.CreateProgram)
			programs.GET("", authors, programHandler.ListOwnPrograms)
			programs.GET("/assigned", programHandler.ListAssignedPrograms)
			programs.POST("/:id/routines", authors, programHandler.AddTemplateRoutine)
			programs.POST("/:id/assign/:userId", RoleMiddleware(domain.RoleProfessor), programHandler.AssignToUser)
			programs.POST("/:id/clone", RoleMiddleware(domain.RoleUser), programHandler.CloneProgram)
		}

		users := protected.Group("/users")
		{
			users.GET("", RoleMiddleware(domain.RoleAdmin), userHandler.ListUsers)
			users.PATCH("/profile", userHandler.UpdateProfile)
		}
	}
}
