package server

import (
	"context"
	"net/http"
	"time"

	"theroom/internal/auth"
	"theroom/internal/booking"
	"theroom/internal/config"
	"theroom/internal/email"
	"theroom/internal/product"
	"theroom/internal/studio"
	"theroom/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	limiter := NewRateLimiter(10, 20, 5*time.Minute)
	router.Use(limiter.Middleware())

	userRepo := user.NewRepository(db)
	studioRepo := studio.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	productRepo := product.NewRepository(db)

	bookingService := booking.NewService(bookingRepo, studioRepo, userRepo, emailService)

	userHandler := user.NewHandler(userRepo, cfg.JWTSecret)
	studioHandler := studio.NewHandler(studioRepo, bookingRepo)
	bookingHandler := booking.NewHandler(bookingService)
	productHandler := product.NewHandler(productRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/overview", bookingHandler.GetOverview)
		protected.GET("/classes", studioHandler.ListClasses)
		protected.GET("/schedule", studioHandler.GetSchedule)
		protected.POST("/schedule/:scheduleID/book", bookingHandler.BookClass)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		protected.GET("/products", productHandler.ListProducts)
		protected.POST("/products/:productID/purchase", productHandler.PurchaseProduct)
	}

	// Single role gate for the whole admin surface; no per-screen re-checks.
	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.PATCH("/users/:userID/credits", userHandler.UpdateCredits)
		admin.PATCH("/users/:userID/admin", userHandler.ToggleAdmin)
		admin.POST("/classes", studioHandler.CreateClass)
		admin.GET("/schedule", studioHandler.ListUpcoming)
		admin.POST("/schedule", studioHandler.CreateScheduleEntry)
		admin.DELETE("/schedule/:scheduleID", studioHandler.DeleteScheduleEntry)
		admin.GET("/bookings", bookingHandler.ListRecentBookings)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
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

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
