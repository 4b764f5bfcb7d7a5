package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database/sessions"
	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/livequery"
)

// LiveController streams query results over server-sent events. Each client
// gets its own subscription; a new event is pushed whenever a write touches
// the subscribed collection.
type LiveController struct {
	bus      *livequery.Bus
	sessions *sessions.Repository
}

func NewLiveController(bus *livequery.Bus, sessionsRepo *sessions.Repository) *LiveController {
	return &LiveController{bus: bus, sessions: sessionsRepo}
}

// Sessions streams the filtered session list: one event immediately, then
// one after every session write. Filters match the plain list endpoint.
func (controller *LiveController) Sessions(c *gin.Context) {
	filters, err := sessionFilters(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "from/to must be epoch milliseconds"})
		return
	}

	sub := livequery.Subscribe(controller.bus, []string{livequery.CollectionSessions},
		func() ([]entities.ChargingSession, error) {
			return controller.sessions.List(filters)
		})
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-sub.Updates():
			if !ok {
				return false
			}
			if update.Err != nil {
				c.SSEvent("error", gin.H{"error": update.Err.Error()})
				return true
			}
			c.SSEvent("sessions", gin.H{"sessions": update.Value, "count": len(update.Value)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
