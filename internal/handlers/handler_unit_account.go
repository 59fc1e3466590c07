package handlers

import (
	"net/http"

	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// unitAccountHandler handles HTTP requests for individual unit accounts.
type unitAccountHandler struct {
	unitAccountService portssvc.UnitAccountSvcFacade
}

func newUnitAccountHandler(uas portssvc.UnitAccountSvcFacade) *unitAccountHandler {
	return &unitAccountHandler{unitAccountService: uas}
}

// registerUnitAccountRoutes registers unit account routes.
func registerUnitAccountRoutes(rg *gin.RouterGroup, unitAccountService portssvc.UnitAccountSvcFacade) {
	h := newUnitAccountHandler(unitAccountService)

	rg.GET("/unit-accounts/:unit_account_id", h.getUnitAccount)
}

func (h *unitAccountHandler) getUnitAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, details, err := h.unitAccountService.GetUnitAccount(c.Request.Context(), c.Param("unit_account_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitAccountResponse(account, details))
}
