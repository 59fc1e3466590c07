package handlers

import (
	"net/http"

	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// unitHandler handles HTTP requests addressed to a single unit.
type unitHandler struct {
	unitService        portssvc.UnitSvcFacade
	unitAccountService portssvc.UnitAccountSvcFacade
	reportingService   portssvc.ReportingSvcFacade
}

func newUnitHandler(us portssvc.UnitSvcFacade, uas portssvc.UnitAccountSvcFacade, rs portssvc.ReportingSvcFacade) *unitHandler {
	return &unitHandler{unitService: us, unitAccountService: uas, reportingService: rs}
}

// registerUnitRoutes registers routes addressed to a single unit.
func registerUnitRoutes(rg *gin.RouterGroup, unitService portssvc.UnitSvcFacade, unitAccountService portssvc.UnitAccountSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newUnitHandler(unitService, unitAccountService, reportingService)

	units := rg.Group("/units/:unit_id")
	{
		units.GET("", h.getUnit)
		units.GET("/accounts", h.listUnitAccounts)
		units.GET("/statement", h.getUnitStatement)
	}
}

func (h *unitHandler) getUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unit, err := h.unitService.GetUnitByID(c.Request.Context(), c.Param("unit_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

func (h *unitHandler) listUnitAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.unitAccountService.ListAccountsByUnit(c.Request.Context(), c.Param("unit_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOutstandingAccountResponses(accounts))
}

func (h *unitHandler) getUnitStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statement, err := h.reportingService.UnitStatement(c.Request.Context(), c.Param("unit_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
