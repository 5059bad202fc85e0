package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/makerlabhq/lab-booking-backend/internal/auth"
	"github.com/makerlabhq/lab-booking-backend/internal/booking"
	bookingHttp "github.com/makerlabhq/lab-booking-backend/internal/booking/http"
	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
	spaceHttp "github.com/makerlabhq/lab-booking-backend/internal/labspace/http"
	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
	maintHttp "github.com/makerlabhq/lab-booking-backend/internal/maintenance/http"
	"github.com/makerlabhq/lab-booking-backend/internal/user"
	userHttp "github.com/makerlabhq/lab-booking-backend/internal/user/http"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	UserService        user.Service
	SpaceService       labspace.Service
	MaintenanceService maintenance.Service
	BookingService     booking.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Web frontend
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// staffMiddleware: Further checks if the authenticated user has staff privileges.
	staffMiddleware := RequireStaff(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	spaceHandler := spaceHttp.NewHandler(cfg.SpaceService)
	maintHandler := maintHttp.NewHandler(cfg.MaintenanceService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		spaceHttp.RegisterRoutes(v1, spaceHandler, authMiddleware, staffMiddleware)
		maintHttp.RegisterRoutes(v1, maintHandler, authMiddleware, staffMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, staffMiddleware)
	}

	return r
}
