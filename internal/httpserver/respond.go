package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/account"
	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/checkout"
	"storefront-gateway/internal/domain"
)

// respondError maps service and backend errors onto HTTP statuses. Cart
// errors are always recoverable client mistakes; backend outages become a
// 502 so callers can tell the gateway from its upstreams.
func respondError(c *gin.Context, err error) {
	var verr *cart.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidCoupon),
		errors.Is(err, checkout.ErrUnknownPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, account.ErrDenied):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrBackendUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
