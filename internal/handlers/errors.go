package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
)

// respondLifecycleError maps the lifecycle sentinel errors onto HTTP
// status codes. Anything unrecognized is a datastore failure: logged in
// full, surfaced generically.
func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrMissingFields),
		errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, lifecycle.ErrInvalidRating):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotEditable),
		errors.Is(err, lifecycle.ErrNotCancellable),
		errors.Is(err, lifecycle.ErrNotCompleted):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrAlreadyRated):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNoDriverAvailable):
		c.JSON(503, gin.H{"error": err.Error()})
	default:
		log.Printf("lifecycle operation failed: %v", err)
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}

// isDuplicateKey reports a unique-constraint violation so handlers can
// answer 409 with a user-facing message instead of the raw driver error.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
