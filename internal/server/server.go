package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/srihari2761/pickleball-platform/internal/auth"
	"github.com/srihari2761/pickleball-platform/internal/booking"
	"github.com/srihari2761/pickleball-platform/internal/config"
	"github.com/srihari2761/pickleball-platform/internal/court"
	"github.com/srihari2761/pickleball-platform/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, ledger *booking.Ledger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userService)

	courtService := court.NewService(court.NewRepository(db))
	courtHandler := court.NewHandler(courtService)

	bookingHandler := booking.NewHandler(ledger)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/courts", courtHandler.ListCourts)
		protected.GET("/courts/:courtID", courtHandler.GetCourt)
		protected.GET("/courts/:courtID/availability", bookingHandler.PreviewAvailability)
		protected.GET("/courts/:courtID/bookings", bookingHandler.ListCourtBookings)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
	}

	ownerMiddleware := auth.RequireRole(user.RoleOwner)
	owners := router.Group("/")
	owners.Use(authMiddleware, ownerMiddleware)
	{
		owners.POST("/courts", courtHandler.CreateCourt)
		owners.PUT("/courts/:courtID", courtHandler.UpdateCourt)
		owners.DELETE("/courts/:courtID", courtHandler.DeleteCourt)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
