// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"boletera/internal/cart"
	"boletera/internal/checkout"
	"boletera/internal/events"
	"boletera/internal/notifications"
	"boletera/internal/payments"
	"boletera/internal/scanner"
	"boletera/internal/seats"
	"boletera/internal/shared/config"
	"boletera/internal/shared/database"
	"boletera/internal/tickets"
	"boletera/internal/zones"
	"boletera/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	// shared between route groups
	cacheService cache.Service
	seatRepo     seats.Repository
	holds        seats.Holds
	cartManager  *cart.Manager
	ticketSvc    tickets.Service
	jobProcessor *checkout.JobProcessor
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Shared infrastructure first: later route groups depend on it
	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.seatRepo = seats.NewRepository(r.db.GetPostgreSQL())
	r.holds = seats.NewRedisHolds(r.db.GetRedisClient())
	r.cartManager = cart.NewManager()

	// Health check and metrics endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api)
		r.setupZoneRoutes(api)
		r.setupSeatRoutes(api)
		r.setupCartRoutes(api)
		r.setupTicketRoutes(api)
		r.setupCheckoutRoutes(api)
		r.setupScannerRoutes(api)
	}
}

// JobProcessor returns the background expiry sweeper. It is available after
// SetupRoutes has run.
func (r *Router) JobProcessor() *checkout.JobProcessor {
	return r.jobProcessor
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "boletera-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boletera-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, r.cacheService)
	eventController := events.NewController(eventService)

	events.SetupEventRoutes(rg, eventController, r.config)
}

// setupZoneRoutes configures zone management and revenue routes
func (r *Router) setupZoneRoutes(rg *gin.RouterGroup) {
	zoneRepo := zones.NewRepository(r.db.GetPostgreSQL())
	zoneService := zones.NewService(zoneRepo, r.cacheService)
	zoneController := zones.NewController(zoneService)

	zones.SetupZoneRoutes(rg, zoneController, r.config)
}

// setupSeatRoutes configures seat map and seat selection routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatService := seats.NewService(r.seatRepo, r.holds, r.cacheService, r.config)
	seatController := seats.NewController(seatService)

	seats.SetupSeatRoutes(rg, seatController, r.config)
}

// setupCartRoutes configures cart routes
func (r *Router) setupCartRoutes(rg *gin.RouterGroup) {
	zoneRepo := zones.NewRepository(r.db.GetPostgreSQL())
	cartService := cart.NewService(r.cartManager, r.seatRepo, zoneRepo, r.holds, r.config)
	cartController := cart.NewController(cartService)

	cart.SetupCartRoutes(rg, cartController)
}

// setupTicketRoutes configures ticket lookup and validation routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	r.ticketSvc = tickets.NewService(ticketRepo)
	ticketController := tickets.NewController(r.ticketSvc)

	tickets.SetupTicketRoutes(rg, ticketController, r.config)
}

// setupCheckoutRoutes configures the purchase flow routes and starts the
// background expiry sweeper alongside them.
func (r *Router) setupCheckoutRoutes(rg *gin.RouterGroup) {
	checkoutRepo := checkout.NewRepository(r.db.GetPostgreSQL())
	timerService := checkout.NewTimerService(checkoutRepo)
	gateway := payments.NewMockGateway(&r.config.Payment)

	checkoutService := checkout.NewService(
		checkoutRepo,
		timerService,
		r.seatRepo,
		r.cartManager,
		r.holds,
		r.ticketSvc,
		gateway,
		r.producer,
		r.config,
	)
	checkoutController := checkout.NewController(checkoutService)

	r.jobProcessor = checkout.NewJobProcessor(checkoutRepo, r.seatRepo, r.config.Checkout.SweepInterval)

	checkout.SetupCheckoutRoutes(rg, checkoutController, r.config)
}

// setupScannerRoutes configures gate scan routes
func (r *Router) setupScannerRoutes(rg *gin.RouterGroup) {
	debouncer := scanner.NewDebouncer(r.config.Scanner.DebounceWindow)
	scanService := scanner.NewServiceWithPublisher(r.ticketSvc, debouncer, r.producer)
	scanController := scanner.NewController(scanService)

	scanner.SetupScannerRoutes(rg, scanController, r.config)
}
