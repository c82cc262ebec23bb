package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the only response shape this gateway ever returns. Callers are
// expected to branch on success and ignore the transport status beyond it.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}
