// Package router assembles the HTTP route table.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"lifeboard/internal/config"
	"lifeboard/internal/dashboard"
	"lifeboard/internal/handlers"
	"lifeboard/internal/middleware"
	"lifeboard/internal/services"
	"lifeboard/internal/validator"

	_ "lifeboard/internal/docs" // Import swagger docs
)

// New wires services, handlers and middleware over db.
func New(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	taskService := services.NewTaskService(db)
	sessionService := services.NewSessionService(db)
	routineService := services.NewRoutineService(db)
	gymService := services.NewGymService(db)
	financeService := services.NewFinanceService(db)
	lendingService := services.NewLendingService(db)
	goalService := services.NewGoalService(db)
	interviewService := services.NewInterviewService(db)
	projectService := services.NewProjectService(db)
	calendarService := services.NewCalendarService(db, interviewService)

	aggregator := dashboard.NewAggregator(dashboard.Sources{
		Tasks:      taskService,
		Sessions:   sessionService,
		Routines:   routineService,
		Gym:        gymService,
		Finance:    financeService,
		Goals:      goalService,
		Interviews: interviewService,
		Projects:   projectService,
	}, dashboard.Options{
		Concurrency:           cfg.DashboardConcurrency,
		UpcomingBillDays:      cfg.UpcomingBillDays,
		UpcomingInterviewDays: cfg.UpcomingInterviewDays,
	})

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	dashboardHandler := handlers.NewDashboardHandler(aggregator)
	routineHandler := handlers.NewRoutineHandler(routineService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	moneyHandler := handlers.NewMoneyHandler(financeService, auditService)
	lendingHandler := handlers.NewLendingHandler(lendingService, auditService)

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.NoRoute(middleware.NoRoute)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/me", userHandler.GetProfile)
	protected.GET("/dashboard/summary", dashboardHandler.GetSummary)

	// Routine routes
	routines := protected.Group("/routines")
	routines.GET("/streak", routineHandler.GetStreak)
	routines.GET("/calendar", routineHandler.GetCalendar)
	routines.GET("/templates", routineHandler.ListTemplates)
	routines.POST("/templates", routineHandler.CreateTemplate)
	routines.DELETE("/templates/:id", routineHandler.DeleteTemplate)
	routines.GET("/:date", routineHandler.GetRoutine)
	routines.PUT("/:date", routineHandler.SaveRoutine)

	// Goal routes
	goals := protected.Group("/goals")
	goals.GET("", goalHandler.ListGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.PATCH("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/steps", goalHandler.AddStep)
	goals.PATCH("/:id/steps/:step_id", goalHandler.UpdateStep)
	goals.DELETE("/:id/steps/:step_id", goalHandler.DeleteStep)
	goals.GET("/:id/dependents", goalHandler.GetDependents)
	goals.PUT("/:id/dependencies", goalHandler.SetDependencies)

	// Focus session routes
	sessions := protected.Group("/sessions")
	sessions.POST("", sessionHandler.CreateSession)
	sessions.GET("/stats/today", sessionHandler.GetTodayStats)
	sessions.GET("/stats/weekly", sessionHandler.GetWeeklyStats)

	// Calendar routes
	protected.GET("/calendar/events", calendarHandler.GetEvents)

	// Money routes
	money := protected.Group("/money")
	money.GET("/summary", moneyHandler.GetSummary)
	money.GET("/transactions", moneyHandler.ListTransactions)
	money.POST("/transactions", moneyHandler.CreateTransaction)
	money.POST("/cards", moneyHandler.CreateCard)
	money.GET("/lending", lendingHandler.ListLending)
	money.POST("/lending", lendingHandler.CreateLending)
	money.POST("/lending/:id/return", lendingHandler.RecordReturn)
	money.DELETE("/lending/:id", lendingHandler.DeleteLending)

	return router
}
