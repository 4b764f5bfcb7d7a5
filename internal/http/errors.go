package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database"
)

// respondError maps repository failures onto HTTP statuses: missing ids are
// 404, blocked deletes 409, rejected input 400, everything else (storage)
// 500. The message is the repository's human-readable one.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, database.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, database.ErrInvalid):
		status = http.StatusBadRequest
	}
	c.IndentedJSON(status, gin.H{"error": err.Error()})
}
