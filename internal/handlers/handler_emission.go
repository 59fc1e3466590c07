package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// emissionHandler handles HTTP requests for billing runs.
type emissionHandler struct {
	emissionService portssvc.EmissionSvcFacade
}

func newEmissionHandler(es portssvc.EmissionSvcFacade) *emissionHandler {
	return &emissionHandler{emissionService: es}
}

// registerEmissionRoutes registers emission routes nested under a community.
func registerEmissionRoutes(rg *gin.RouterGroup, emissionService portssvc.EmissionSvcFacade) {
	h := newEmissionHandler(emissionService)

	emissions := rg.Group("/communities/:community_id/emissions")
	{
		emissions.POST("", h.createEmission)
		emissions.GET("", h.listEmissions)
		emissions.GET("/:emission_id", h.getEmission)
	}
}

func (h *emissionHandler) createEmission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEmission", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetActorIDFromContext(c)

	emission, err := h.emissionService.CreateEmission(c.Request.Context(), c.Param("community_id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEmissionResponse(emission))
}

func (h *emissionHandler) listEmissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := paginationParams(c)

	emissions, err := h.emissionService.ListEmissions(c.Request.Context(), c.Param("community_id"), limit, offset)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEmissionResponses(emissions))
}

func (h *emissionHandler) getEmission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	emission, err := h.emissionService.GetEmissionByID(c.Request.Context(), c.Param("community_id"), c.Param("emission_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEmissionResponse(emission))
}
