package http

import (
	"net/http"

	"mentora/internal/application/usecase"
	"mentora/internal/infrastructure/repository"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	gamification *usecase.GamificationUseCase
	catalog      *repository.CatalogRepository
}

func NewProfileHandler(gamification *usecase.GamificationUseCase, catalog *repository.CatalogRepository) *ProfileHandler {
	return &ProfileHandler{gamification: gamification, catalog: catalog}
}

func (h *ProfileHandler) Dashboard(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	stats, err := h.gamification.Dashboard(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ProfileHandler) Plans(c *gin.Context) {
	plans, err := h.catalog.Plans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

type interestsRequest struct {
	Interests string `json:"interests" binding:"required"`
}

func (h *ProfileHandler) UpdateInterests(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req interestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gamification.UpdateInterests(c.Request.Context(), *userID, req.Interests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update interests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "interests updated"})
}
