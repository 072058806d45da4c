package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/checkout"
	"storefront-gateway/internal/session"
)

type cartResponse struct {
	SessionID  string          `json:"sessionId"`
	Items      []cart.LineItem `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	TotalItems int             `json:"totalItems"`
	Empty      bool            `json:"empty"`
}

func toCartResponse(sessionID string, snap cart.Snapshot) cartResponse {
	return cartResponse{
		SessionID:  sessionID,
		Items:      snap.Items,
		TotalPrice: snap.TotalPrice,
		TotalItems: snap.TotalItems,
		Empty:      len(snap.Items) == 0,
	}
}

func createSessionHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, store := sessions.Create()
		c.JSON(http.StatusCreated, toCartResponse(id, store.Snapshot()))
	}
}

func endSessionHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.End(c.Param("sessionID"))
		c.Status(http.StatusNoContent)
	}
}

func getCartHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		store, err := sessions.Cart(sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(sessionID, store.Snapshot()))
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// addCartItemHandler resolves the product against the catalog backend and
// snapshots its price into the cart. Omitted quantity means one.
func addCartItemHandler(sessions *session.Manager, catalog catalogBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		store, err := sessions.Cart(sessionID)
		if err != nil {
			respondError(c, err)
			return
		}

		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId required")
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		product, err := catalog.ProductByID(c.Request.Context(), req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}

		if err := store.AddItem(cart.ItemInput{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			ImageRef:  product.ImageRef,
		}, quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(sessionID, store.Snapshot()))
	}
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func updateCartItemHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		store, err := sessions.Cart(sessionID)
		if err != nil {
			respondError(c, err)
			return
		}

		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity required")
			return
		}

		if err := store.UpdateQuantity(c.Param("productID"), *req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(sessionID, store.Snapshot()))
	}
}

func removeCartItemHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		store, err := sessions.Cart(sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		store.RemoveItem(c.Param("productID"))
		c.JSON(http.StatusOK, toCartResponse(sessionID, store.Snapshot()))
	}
}

func clearCartHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := sessions.Cart(c.Param("sessionID"))
		if err != nil {
			respondError(c, err)
			return
		}
		store.Clear()
		c.Status(http.StatusNoContent)
	}
}

func quoteHandler(sessions *session.Manager, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := sessions.Cart(c.Param("sessionID"))
		if err != nil {
			respondError(c, err)
			return
		}
		quote, err := svc.QuoteFor(store, c.Query("coupon"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

type checkoutRequest struct {
	CustomerID    string `json:"customerId" binding:"required"`
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	CouponCode    string `json:"couponCode"`
}

func checkoutHandler(sessions *session.Manager, svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := sessions.Cart(c.Param("sessionID"))
		if err != nil {
			respondError(c, err)
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "customerId and paymentMethod required")
			return
		}

		placed, err := svc.Submit(c.Request.Context(), store, checkout.Input{
			CustomerID:    req.CustomerID,
			AddressID:     req.AddressID,
			PaymentMethod: req.PaymentMethod,
			CouponCode:    req.CouponCode,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": placed})
	}
}
