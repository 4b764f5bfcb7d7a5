package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database/settings"
)

type SettingsController struct {
	repo *settings.Repository
}

func NewSettingsController(repo *settings.Repository) *SettingsController {
	return &SettingsController{repo: repo}
}

type updateSettingsRequest struct {
	OnboardingComplete *bool `json:"onboarding_complete"`
}

func (controller *SettingsController) Get(c *gin.Context) {
	current, err := controller.repo.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, current)
}

func (controller *SettingsController) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := controller.repo.Update(settings.UpdateInput{
		OnboardingComplete: req.OnboardingComplete,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, current)
}

func (controller *SettingsController) CompleteOnboarding(c *gin.Context) {
	current, err := controller.repo.CompleteOnboarding()
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, current)
}
