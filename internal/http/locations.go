package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database/locations"
)

type LocationsController struct {
	repo *locations.Repository
}

func NewLocationsController(repo *locations.Repository) *LocationsController {
	return &LocationsController{repo: repo}
}

type createLocationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	DefaultRate float64 `json:"default_rate"`
	SortOrder   int     `json:"order"`
}

type updateLocationRequest struct {
	Name        *string  `json:"name"`
	Icon        *string  `json:"icon"`
	Color       *string  `json:"color"`
	DefaultRate *float64 `json:"default_rate"`
	SortOrder   *int     `json:"order"`
	IsActive    *bool    `json:"is_active"`
}

// List returns active locations by default; ?all=1 includes soft-deleted ones.
func (controller *LocationsController) List(c *gin.Context) {
	activeOnly := c.Query("all") == ""

	list, err := controller.repo.List(activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"locations": list, "count": len(list)})
}

func (controller *LocationsController) Get(c *gin.Context) {
	location, err := controller.repo.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if location == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, location)
}

func (controller *LocationsController) Create(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := controller.repo.Create(locations.CreateInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		DefaultRate: req.DefaultRate,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, location)
}

func (controller *LocationsController) Update(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := controller.repo.Update(c.Param("id"), locations.UpdateInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		DefaultRate: req.DefaultRate,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, location)
}

func (controller *LocationsController) Delete(c *gin.Context) {
	if err := controller.repo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
