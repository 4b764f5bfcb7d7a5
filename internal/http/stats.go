package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/stats"
)

type StatsController struct {
	service *stats.Service
}

func NewStatsController(service *stats.Service) *StatsController {
	return &StatsController{service: service}
}

func (controller *StatsController) Overview(c *gin.Context) {
	overview, err := controller.service.Overview()
	if err != nil {
		respondError(c, err)
		return
	}

	recent, err := controller.service.RecentSessions(stats.RecentSessionsLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"overview":        overview,
		"recent_sessions": recent,
	})
}
