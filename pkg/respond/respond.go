// Package respond renders the uniform JSON envelope every endpoint
// answers with.
package respond

import "github.com/gin-gonic/gin"

type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// Data writes a success envelope.
func Data(c *gin.Context, code int, data any, message string) {
	c.JSON(code, Envelope{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error writes an error envelope and aborts the handler chain.
func Error(c *gin.Context, code int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}

	c.AbortWithStatusJSON(code, ErrorEnvelope{
		StatusCode: code,
		Message:    message,
		Success:    false,
		Errors:     errs,
	})
}
