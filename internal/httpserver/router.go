package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/account"
	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/checkout"
	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/session"
)

// Consumer-side views of the backend clients, narrow enough to stub in
// handler tests.
type catalogBackend interface {
	Products(ctx context.Context) ([]domain.Product, error)
	ProductByID(ctx context.Context, id string) (*domain.Product, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Ping(ctx context.Context) error
}

type accountBackend interface {
	Register(ctx context.Context, in account.RegisterInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, error)
	Profile(ctx context.Context, customerID string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, customerID string, in account.ProfileUpdate) (*domain.Customer, error)
	ValidateEmail(ctx context.Context, email string) (bool, error)
}

type orderBackend interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

type checkoutService interface {
	QuoteFor(store *cart.Store, couponCode string) (checkout.Quote, error)
	Submit(ctx context.Context, store *cart.Store, in checkout.Input) (*domain.Order, error)
}

// Deps carries the collaborators the routes need.
type Deps struct {
	Sessions *session.Manager
	Catalog  catalogBackend
	Accounts accountBackend
	Orders   orderBackend
	Checkout checkoutService
}

// buildRouter wires routes for the gateway.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	// Mobile webviews and the web build call cross-origin.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Catalog))

	router.GET("/products", listProductsHandler(deps.Catalog))
	router.GET("/products/:productID", getProductHandler(deps.Catalog))
	router.GET("/categories", listCategoriesHandler(deps.Catalog))

	router.POST("/sessions", createSessionHandler(deps.Sessions))
	router.DELETE("/sessions/:sessionID", endSessionHandler(deps.Sessions))
	router.GET("/sessions/:sessionID/cart", getCartHandler(deps.Sessions))
	router.POST("/sessions/:sessionID/cart/items", addCartItemHandler(deps.Sessions, deps.Catalog))
	router.PATCH("/sessions/:sessionID/cart/items/:productID", updateCartItemHandler(deps.Sessions))
	router.DELETE("/sessions/:sessionID/cart/items/:productID", removeCartItemHandler(deps.Sessions))
	router.DELETE("/sessions/:sessionID/cart", clearCartHandler(deps.Sessions))
	router.GET("/sessions/:sessionID/checkout/quote", quoteHandler(deps.Sessions, deps.Checkout))
	router.POST("/sessions/:sessionID/checkout", checkoutHandler(deps.Sessions, deps.Checkout))

	router.POST("/account/register", registerHandler(deps.Accounts))
	router.POST("/account/login", loginHandler(deps.Accounts))
	router.POST("/account/validate-email", validateEmailHandler(deps.Accounts))
	router.GET("/account/:customerID", profileHandler(deps.Accounts))
	router.PUT("/account/:customerID", updateProfileHandler(deps.Accounts))

	router.GET("/customers/:customerID/orders", listOrdersHandler(deps.Orders))
	router.GET("/orders/:orderID", getOrderHandler(deps.Orders))

	return router, nil
}
