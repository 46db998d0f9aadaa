package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"softdesk/internal/apperr"
)

// StatusForError maps the core error taxonomy to protocol status codes.
// Forbidden is never downgraded to NotFound: "exists but untouchable" and
// "absent" stay distinct at this boundary.
func StatusForError(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsForbidden(err):
		return http.StatusForbidden
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		// Internal detail stays in the logs.
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
