package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every error response carries a single "detail" field so clients can
// handle all failures uniformly.

func RespondWithDetail(c *gin.Context, status int, detail interface{}) {
	c.JSON(status, gin.H{"detail": detail})
}

// NotFound sends a 404.
func NotFound(c *gin.Context, detail string) {
	RespondWithDetail(c, http.StatusNotFound, detail)
}

// BadRequest sends a 400 for semantically invalid requests, like a
// duplicate email.
func BadRequest(c *gin.Context, detail string) {
	RespondWithDetail(c, http.StatusBadRequest, detail)
}

// Validation sends a 422 for malformed parameters or bodies.
func Validation(c *gin.Context, detail interface{}) {
	RespondWithDetail(c, http.StatusUnprocessableEntity, detail)
}

// ServiceUnavailable sends a 503 when a backing service cannot be
// reached.
func ServiceUnavailable(c *gin.Context, detail string) {
	RespondWithDetail(c, http.StatusServiceUnavailable, detail)
}

// InternalError sends a 500 without leaking the underlying error.
func InternalError(c *gin.Context) {
	RespondWithDetail(c, http.StatusInternalServerError, "Internal server error")
}
