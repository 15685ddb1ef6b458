package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dawam/attendance-system/internal/api/handler"
	"github.com/dawam/attendance-system/internal/api/middleware"
	"github.com/dawam/attendance-system/internal/core/ports"
)

// Dependencies carries everything the router needs to wire the handlers.
type Dependencies struct {
	Attendance ports.AttendanceService
	Auth       ports.AuthService
	Mongo      *mongo.Database
	Redis      *redis.Client
	JWTSecret  string
	StaticDir  string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("attendance"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	attendanceHandler := handler.NewAttendanceHandler(deps.Attendance)
	adminHandler := handler.NewAdminHandler(deps.Auth)

	// --- Employee-facing API ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth", authHandler.Login)
	apiGroup.POST("/checkin", attendanceHandler.CheckIn)
	apiGroup.POST("/checkout", attendanceHandler.CheckOut)
	apiGroup.GET("/summary", attendanceHandler.Summary)

	// --- Admin API (login is open; the rest requires the bearer token) ---
	apiGroup.POST("/admin/login", authHandler.AdminLogin)
	adminGroup := apiGroup.Group("/admin", middleware.RequireAdmin(deps.JWTSecret))
	adminGroup.POST("/employees", adminHandler.CreateEmployee)
	adminGroup.GET("/employees", adminHandler.ListEmployees)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Static frontend ---
	if deps.StaticDir != "" {
		e.Static("/", deps.StaticDir)
	}

	return e
}
