package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gridops/utility_ledger_app/cmd/docs"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/middleware"
	"github.com/gridops/utility_ledger_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerHomeRoutes(r)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerCurrencyRoutes(v1, service.Currency)
	registerAccountRoutes(v1, service.Account)
	registerTreasuryRoutes(v1, service.Treasury)
	registerPartyRoutes(v1, service.Party)
	registerVoucherRoutes(v1, service.Voucher)
	registerJournalRoutes(v1, service.Journal)
	registerReconcileRoutes(v1, service.Reconciliation)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// scopeFromContext extracts the authenticated business and user identity
// that the auth middleware placed on the request context.
func scopeFromContext(c *gin.Context) (businessID, userID string, ok bool) {
	businessID, ok = middleware.GetBusinessIDFromContext(c)
	if !ok {
		return "", "", false
	}
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		return "", "", false
	}
	return businessID, userID, true
}
