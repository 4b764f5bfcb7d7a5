package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database/vehicles"
)

type VehiclesController struct {
	repo *vehicles.Repository
}

func NewVehiclesController(repo *vehicles.Repository) *VehiclesController {
	return &VehiclesController{repo: repo}
}

type createVehicleRequest struct {
	Name  string `json:"name"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Icon  string `json:"icon"`
}

type updateVehicleRequest struct {
	Name     *string `json:"name"`
	Make     *string `json:"make"`
	Model    *string `json:"model"`
	Year     *int    `json:"year"`
	Icon     *string `json:"icon"`
	IsActive *bool   `json:"is_active"`
}

// List returns active vehicles by default; ?all=1 includes soft-deleted ones.
func (controller *VehiclesController) List(c *gin.Context) {
	activeOnly := c.Query("all") == ""

	list, err := controller.repo.List(activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"vehicles": list, "count": len(list)})
}

func (controller *VehiclesController) Get(c *gin.Context) {
	vehicle, err := controller.repo.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if vehicle == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, vehicle)
}

func (controller *VehiclesController) Create(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := controller.repo.Create(vehicles.CreateInput{
		Name:  req.Name,
		Make:  req.Make,
		Model: req.Model,
		Year:  req.Year,
		Icon:  req.Icon,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, vehicle)
}

func (controller *VehiclesController) Update(c *gin.Context) {
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := controller.repo.Update(c.Param("id"), vehicles.UpdateInput{
		Name:     req.Name,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Icon:     req.Icon,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, vehicle)
}

func (controller *VehiclesController) Delete(c *gin.Context) {
	if err := controller.repo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
