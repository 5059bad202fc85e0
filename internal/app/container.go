package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/makerlabhq/lab-booking-backend/internal/api"
	"github.com/makerlabhq/lab-booking-backend/internal/auth"
	"github.com/makerlabhq/lab-booking-backend/internal/booking"
	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
	"github.com/makerlabhq/lab-booking-backend/internal/plan"
	"github.com/makerlabhq/lab-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	CheckInLead  time.Duration
	Logger       zerolog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Plan Module
	planProvider := plan.NewPgxProvider(cfg.DBPool)

	// LabSpace Module
	spaceRepo := labspace.NewPgxRepository(cfg.DBPool)
	spaceService := labspace.NewService(spaceRepo)

	// Maintenance Module
	maintRepo := maintenance.NewPgxRepository(cfg.DBPool)
	maintService := maintenance.NewService(maintRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, maintRepo, spaceService, planProvider, cfg.CheckInLead, cfg.Logger)

	// API Router Config
	routerParams := api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		UserService:        userService,
		SpaceService:       spaceService,
		MaintenanceService: maintService,
		BookingService:     bookingService,
		JWTManager:         jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
