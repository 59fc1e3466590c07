package handlers

import (
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/condoledger/condoledger/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Every v1 route records who acted, so the actor middleware guards the
	// whole group.
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	registerCommunityRoutes(v1, services.Community, services.Unit)
	registerUnitRoutes(v1, services.Unit, services.UnitAccount, services.Reporting)
	registerExpenseRoutes(v1, services.Expense)
	registerEmissionRoutes(v1, services.Emission)
	registerUnitAccountRoutes(v1, services.UnitAccount)
	registerPaymentRoutes(v1, services.Payment)
	registerReportingRoutes(v1, services.Reporting)
	registerAccrualRoutes(v1, services.UnitAccount)
}
