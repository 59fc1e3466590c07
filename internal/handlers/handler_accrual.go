package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accrualHandler exposes the interest accrual batch to schedulers that
// trigger it over HTTP.
type accrualHandler struct {
	unitAccountService portssvc.UnitAccountSvcFacade
}

func newAccrualHandler(uas portssvc.UnitAccountSvcFacade) *accrualHandler {
	return &accrualHandler{unitAccountService: uas}
}

// registerAccrualRoutes registers the accrual batch trigger.
func registerAccrualRoutes(rg *gin.RouterGroup, unitAccountService portssvc.UnitAccountSvcFacade) {
	h := newAccrualHandler(unitAccountService)

	rg.POST("/accruals/run", h.runAccrual)
}

func (h *accrualHandler) runAccrual(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AccrualRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AccrualRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.unitAccountService.AccrueInterest(c.Request.Context(), req.AsOfDate)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
