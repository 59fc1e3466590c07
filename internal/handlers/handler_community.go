package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// communityHandler handles HTTP requests related to communities and their
// billing configuration.
type communityHandler struct {
	communityService portssvc.CommunitySvcFacade
	unitService      portssvc.UnitSvcFacade
}

func newCommunityHandler(cs portssvc.CommunitySvcFacade, us portssvc.UnitSvcFacade) *communityHandler {
	return &communityHandler{communityService: cs, unitService: us}
}

// registerCommunityRoutes registers community and nested unit routes.
func registerCommunityRoutes(rg *gin.RouterGroup, communityService portssvc.CommunitySvcFacade, unitService portssvc.UnitSvcFacade) {
	h := newCommunityHandler(communityService, unitService)

	communities := rg.Group("/communities")
	{
		communities.POST("", h.createCommunity)
		communities.GET("", h.listCommunities)
		communities.GET("/:community_id", h.getCommunity)
		communities.GET("/:community_id/billing-parameters", h.getBillingParameters)
		communities.PUT("/:community_id/billing-parameters", h.updateBillingParameters)

		communities.POST("/:community_id/units", h.createUnits)
		communities.PUT("/:community_id/units/rebalance", h.rebalanceUnits)
		communities.GET("/:community_id/units", h.listUnits)
	}
}

func (h *communityHandler) createCommunity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCommunity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetActorIDFromContext(c)

	community, err := h.communityService.CreateCommunity(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommunityResponse(community))
}

func (h *communityHandler) listCommunities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := paginationParams(c)

	communities, err := h.communityService.ListCommunities(c.Request.Context(), limit, offset)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommunityResponses(communities))
}

func (h *communityHandler) getCommunity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	community, err := h.communityService.GetCommunityByID(c.Request.Context(), c.Param("community_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommunityResponse(community))
}

func (h *communityHandler) getBillingParameters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, err := h.communityService.GetBillingParameters(c.Request.Context(), c.Param("community_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBillingParametersResponse(params))
}

func (h *communityHandler) updateBillingParameters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBillingParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBillingParameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetActorIDFromContext(c)

	params, err := h.communityService.UpdateBillingParameters(c.Request.Context(), c.Param("community_id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBillingParametersResponse(params))
}

func (h *communityHandler) createUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateUnits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetActorIDFromContext(c)

	units, err := h.unitService.CreateUnits(c.Request.Context(), c.Param("community_id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUnitResponses(units))
}

func (h *communityHandler) rebalanceUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RebalanceUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RebalanceUnits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetActorIDFromContext(c)

	units, err := h.unitService.RebalanceUnits(c.Request.Context(), c.Param("community_id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponses(units))
}

func (h *communityHandler) listUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("active") == "true"

	units, err := h.unitService.ListUnits(c.Request.Context(), c.Param("community_id"), activeOnly)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponses(units))
}

// paginationParams reads limit/offset query parameters with sane fallbacks.
func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
