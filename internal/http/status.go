package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/initializer"
)

// StatusController exposes the initialization state so the UI can gate
// rendering on it.
type StatusController struct {
	sequencer *initializer.Sequencer
}

func NewStatusController(sequencer *initializer.Sequencer) *StatusController {
	return &StatusController{sequencer: sequencer}
}

func (controller *StatusController) Status(c *gin.Context) {
	state, err := controller.sequencer.Status()

	body := gin.H{
		"state":            state.String(),
		"is_initialized":   state == initializer.StateReady,
		"needs_onboarding": controller.sequencer.NeedsOnboarding(),
	}
	if err != nil {
		body["error"] = err.Error()
	}

	statusCode := http.StatusOK
	if state == initializer.StateFailed {
		statusCode = http.StatusInternalServerError
	}
	c.IndentedJSON(statusCode, body)
}

// RequireReady rejects data requests until initialization finished, so no
// caller can observe an unseeded store.
func RequireReady(sequencer *initializer.Sequencer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sequencer.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "App is not initialized yet"})
			return
		}
		c.Next()
	}
}
