package response

import (
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every JSON reply.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func Success(c *gin.Context, code int, message string, data interface{}) {
	write(c, code, Envelope{Success: true, Message: message, Data: data})
}

// Error replies with success=false; details may be nil.
func Error(c *gin.Context, code int, message string, details interface{}) {
	write(c, code, Envelope{Message: message, Error: details})
}

func write(c *gin.Context, code int, env Envelope) {
	env.RequestID = domain.RequestIDFromContext(c.Request.Context())
	c.JSON(code, env)
}
