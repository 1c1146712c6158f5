// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"boletamaster/internal/admin"
	"boletamaster/internal/auth"
	"boletamaster/internal/clients"
	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/journal"
	"boletamaster/internal/marketplace"
	"boletamaster/internal/organizers"
	"boletamaster/internal/purchases"
	"boletamaster/internal/refunds"
	"boletamaster/internal/shared/config"
	"boletamaster/internal/shared/database"
	"boletamaster/internal/tickets"
	"boletamaster/internal/venues"
	"boletamaster/pkg/cache"
	"boletamaster/pkg/metrics"

	_ "boletamaster/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Modules holds the wired services of the platform
type Modules struct {
	Policy        *fees.Policy
	Cache         cache.Service
	Venues        venues.Service
	Events        events.Service
	Tickets       tickets.Repository
	Ledger        *purchases.Ledger
	ClientRepo    clients.Repository
	Clients       clients.Service
	Refunds       refunds.Service
	Market        *marketplace.Marketplace
	Marketplace   marketplace.Service
	Organizers    organizers.Service
	Administrator *admin.Administrator
	Auth          auth.Service
}

// NewModules builds every service. db may carry nil connections, stores then stay in memory.
func NewModules(cfg *config.Config, db *database.DB, policy *fees.Policy, publisher journal.Publisher) *Modules {
	pg := db.GetPostgreSQL()
	m := &Modules{
		Policy:     policy,
		Cache:      cache.NewService(db.GetRedisClient()),
		Venues:     venues.NewService(venues.NewRepository()),
		Tickets:    tickets.NewRepository(),
		Ledger:     purchases.NewLedger(),
		ClientRepo: clients.NewRepository(),
		Market:     marketplace.New(nil),
	}
	m.Events = events.NewService(events.NewRepository(), m.Cache)
	m.Clients = clients.NewService(clients.Deps{
		Repo:      m.ClientRepo,
		Events:    m.Events,
		Tickets:   m.Tickets,
		Receipts:  purchases.NewRepository(pg),
		Ledger:    m.Ledger,
		Gateway:   purchases.MockGateway{},
		Publisher: publisher,
		Cache:     m.Cache,
	})
	m.Refunds = refunds.NewService(refunds.NewDesk(), refunds.NewRepository(pg), m.ClientRepo, m.Tickets, m.Cache, publisher)
	m.Marketplace = marketplace.NewService(m.Market, marketplace.NewRepository(pg), m.ClientRepo, m.Tickets, m.Cache, publisher)
	m.Organizers = organizers.NewService(organizers.Deps{
		Repo:      organizers.NewRepository(),
		Events:    m.Events,
		Venues:    m.Venues,
		Policy:    policy,
		Tickets:   m.Tickets,
		Clients:   m.ClientRepo,
		Publisher: publisher,
	})
	m.Administrator = admin.NewAdministrator(admin.Deps{
		Policy:      policy,
		Venues:      m.Venues,
		Events:      m.Events,
		Market:      m.Market,
		Marketplace: m.Marketplace,
		Ledger:      m.Ledger,
		Cache:       m.Cache,
		Publisher:   publisher,
	})
	m.Auth = auth.NewService(auth.NewRepository(pg), auth.NewProfileAdapter(m.Clients, m.Organizers), cfg)
	return m
}

// Router holds all route dependencies
type Router struct {
	config  *config.Config
	db      *database.DB
	modules *Modules
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, modules *Modules) *Router {
	return &Router{
		config:  cfg,
		db:      db,
		modules: modules,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", metrics.Handler())
	if !r.config.IsProduction() {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		venues.SetupVenueRoutes(api, venues.NewController(r.modules.Venues))
		events.SetupEventRoutes(api, events.NewController(r.modules.Events))
		clients.SetupClientRoutes(api, clients.NewController(r.modules.Clients))
		refunds.SetupRefundRoutes(api, refunds.NewController(r.modules.Refunds))
		marketplace.SetupMarketplaceRoutes(api, marketplace.NewController(r.modules.Marketplace))
		organizers.SetupOrganizerRoutes(api, organizers.NewController(r.modules.Organizers))
		admin.SetupAdminRoutes(api, admin.NewController(r.modules.Administrator))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "boletamaster-api",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boletamaster-api",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"active_offers": r.modules.Market.ActiveCount(),
			"persistent":    r.db.GetPostgreSQL() != nil,
			"redis_cache":   r.db.GetRedisClient() != nil,
			"timestamp":     time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authController := auth.NewController(r.modules.Auth)
	auth.SetupAuthRoutes(rg, authController, r.config)
}

// Bootstrap creates the configured administrator account
func (r *Router) Bootstrap(ctx context.Context) error {
	return r.modules.Auth.BootstrapAdmin(ctx, r.config.Admin.Email, r.config.Admin.Password)
}
