package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "wayfare/internal/app/handlers/booking"
	"wayfare/internal/app/locks"
	"wayfare/internal/app/middleware"
	"wayfare/internal/app/policies"
	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domaincatalog "wayfare/internal/domain/catalog"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
)

// respondError translates domain and application failures into HTTP
// statuses. Anything unrecognized is a 500 with the message withheld.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domaincatalog.ErrPackageNotFound),
		errors.Is(err, domaincatalog.ErrDestinationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrConcurrentUpdate),
		errors.Is(err, locks.ErrNotAcquired),
		errors.Is(err, middleware.ErrKeyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainavailability.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainbooking.ErrNotCancellable),
		errors.Is(err, domainbooking.ErrReviewTooEarly),
		errors.Is(err, domainbooking.ErrAmountExceedsBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, policies.ErrGatewayCharge):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isValidationError(err error) bool {
	var mismatch *domainpricing.MismatchError
	if errors.As(err, &mismatch) {
		return true
	}
	return errors.Is(err, bookingapp.ErrMissingField) ||
		errors.Is(err, bookingapp.ErrNonPositiveAmount) ||
		errors.Is(err, domainrange.ErrInvalidRange) ||
		errors.Is(err, domainbooking.ErrStartInPast) ||
		errors.Is(err, domainbooking.ErrUserRequired) ||
		errors.Is(err, domainbooking.ErrInvalidRating) ||
		errors.Is(err, domainpricing.ErrNegativeTravelers) ||
		errors.Is(err, domainpricing.ErrNoAdults) ||
		errors.Is(err, domainpricing.ErrInvalidRooms) ||
		errors.Is(err, domainpricing.ErrFlightClass) ||
		errors.Is(err, domainpricing.ErrAccommodation) ||
		errors.Is(err, domainpricing.ErrCurrencyUnset)
}
