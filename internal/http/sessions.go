package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database/sessions"
)

type SessionsController struct {
	repo *sessions.Repository
}

func NewSessionsController(repo *sessions.Repository) *SessionsController {
	return &SessionsController{repo: repo}
}

type createSessionRequest struct {
	VehicleID  string  `json:"vehicle_id" binding:"required"`
	LocationID string  `json:"location_id" binding:"required"`
	EnergyKwh  float64 `json:"energy_kwh"`
	RatePerKwh float64 `json:"rate_per_kwh"`
	ChargedAt  int64   `json:"charged_at"`
	Notes      string  `json:"notes"`
}

type updateSessionRequest struct {
	VehicleID  *string  `json:"vehicle_id"`
	LocationID *string  `json:"location_id"`
	EnergyKwh  *float64 `json:"energy_kwh"`
	RatePerKwh *float64 `json:"rate_per_kwh"`
	ChargedAt  *int64   `json:"charged_at"`
	Notes      *string  `json:"notes"`
}

// sessionFilters reads the optional vehicle_id, location_id, from and to
// query parameters. from/to are epoch millis and bound chargedAt inclusively;
// providing either one requires the other to default sensibly, so an open
// end falls back to the extreme of the range.
func sessionFilters(c *gin.Context) (sessions.Filters, error) {
	filters := sessions.Filters{
		VehicleID:  c.Query("vehicle_id"),
		LocationID: c.Query("location_id"),
	}

	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" && toRaw == "" {
		return filters, nil
	}

	dateRange := sessions.DateRange{Start: 0, End: int64(1) << 62}
	if fromRaw != "" {
		from, err := strconv.ParseInt(fromRaw, 10, 64)
		if err != nil {
			return filters, err
		}
		dateRange.Start = from
	}
	if toRaw != "" {
		to, err := strconv.ParseInt(toRaw, 10, 64)
		if err != nil {
			return filters, err
		}
		dateRange.End = to
	}
	filters.Range = &dateRange
	return filters, nil
}

func (controller *SessionsController) List(c *gin.Context) {
	filters, err := sessionFilters(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "from/to must be epoch milliseconds"})
		return
	}

	list, err := controller.repo.List(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"sessions": list, "count": len(list)})
}

func (controller *SessionsController) Get(c *gin.Context) {
	session, err := controller.repo.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, session)
}

func (controller *SessionsController) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := controller.repo.Create(sessions.CreateInput{
		VehicleID:  req.VehicleID,
		LocationID: req.LocationID,
		EnergyKwh:  req.EnergyKwh,
		RatePerKwh: req.RatePerKwh,
		ChargedAt:  req.ChargedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, session)
}

func (controller *SessionsController) Update(c *gin.Context) {
	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := controller.repo.Update(c.Param("id"), sessions.UpdateInput{
		VehicleID:  req.VehicleID,
		LocationID: req.LocationID,
		EnergyKwh:  req.EnergyKwh,
		RatePerKwh: req.RatePerKwh,
		ChargedAt:  req.ChargedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, session)
}

func (controller *SessionsController) Delete(c *gin.Context) {
	if err := controller.repo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
