package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy onto HTTP. Validation failures
// and illegal lifecycle moves are unprocessable input (the caller must change
// its request); calendar conflicts are 409 and carry the conflicting
// bookings so clients can show the blocked dates.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var ce *domain.ConflictError
	var se *domain.StateTransitionError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error(), "reason": ve.Reason})
	case errors.As(err, &ce):
		conflicts := make([]bookingResponse, 0, len(ce.Conflicts))
		now := time.Now()
		for i := range ce.Conflicts {
			conflicts = append(conflicts, toBookingResponse(&ce.Conflicts[i], now))
		}
		c.JSON(http.StatusConflict, gin.H{"error": ce.Error(), "conflicting_bookings": conflicts})
	case errors.As(err, &se):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": se.Error(), "current_phase": string(se.From)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
