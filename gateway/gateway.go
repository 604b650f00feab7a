package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/marketplace"
	"github.com/example/agbado/pkg/models"
	"github.com/example/agbado/pkg/notify"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Catalog serves the read side of the marketplace. It is satisfied by
// *marketplace.Service and by the gRPC CatalogClient.
type Catalog interface {
	ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error)
	ListProviders(ctx context.Context, f marketplace.ProviderFilter) ([]models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	ListProducts(ctx context.Context, f marketplace.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	Search(ctx context.Context, query string, scope marketplace.Scope) (*marketplace.SearchResult, error)
}

// Orders serves checkout and bookings. It is satisfied by
// *marketplace.Service and by the gRPC OrderClient.
type Orders interface {
	PlaceOrder(ctx context.Context, in marketplace.PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*marketplace.OrderDetail, error)
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	CreateBooking(ctx context.Context, in marketplace.BookingInput) (*models.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

// Feed returns a user's recent notifications.
type Feed interface {
	Recent(ctx context.Context, userID string) ([]notify.Notification, error)
}

type Gateway struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	server  *http.Server
	svc     *marketplace.Service
	catalog Catalog
	orders  Orders
	feed    Feed
}

type Option func(*Gateway)

// WithRemote routes catalog and checkout calls to other implementations,
// typically the order service clients.
func WithRemote(catalog Catalog, orders Orders) Option {
	return func(g *Gateway) {
		g.catalog = catalog
		g.orders = orders
	}
}

func WithFeed(feed Feed) Option {
	return func(g *Gateway) { g.feed = feed }
}

func NewGateway(cfg *config.Config, logger *zap.Logger, svc *marketplace.Service, opts ...Option) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(cors.New(corsConfig(cfg.Gateway.AllowedOrigins)))

	g := &Gateway{
		config:  cfg,
		logger:  logger,
		router:  router,
		svc:     svc,
		catalog: svc,
		orders:  svc,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := g.router.Group("/api")
	{
		api.GET("/service-categories", g.listServiceCategories)

		api.GET("/providers", g.listProviders)
		api.GET("/providers/:id", g.getProvider)

		api.GET("/products", g.listProducts)
		api.GET("/products/:id", g.getProduct)

		cart := api.Group("/cart")
		{
			cart.GET("", g.getCart)
			cart.GET("/summary", g.getCartSummary)
			cart.POST("", g.addToCart)
			cart.PUT("/:id", g.updateCartItem)
			cart.DELETE("/:id", g.removeCartItem)
		}

		api.POST("/orders", g.createOrder)
		api.GET("/orders", g.listOrders)
		api.GET("/orders/:id", g.getOrder)

		api.POST("/bookings", g.createBooking)
		api.GET("/bookings", g.listBookings)

		api.GET("/search", g.search)
		api.GET("/notifications", g.listNotifications)

		users := api.Group("/v1/users")
		{
			users.POST("", g.createUser)
			users.GET("/:id", g.getUser)
		}
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Gateway.Host, g.config.Gateway.Port)
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.logger.Info("Gateway starting", zap.String("address", addr))

	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

// userID is the placeholder identity every request acts as.
func (g *Gateway) userID() string {
	return g.config.Marketplace.DemoUserID
}

// failure holds the response messages for the error classes of one route.
type failure struct {
	invalid  string
	notFound string
	failed   string
}

func (g *Gateway) fail(c *gin.Context, err error, f failure) {
	var ve *marketplace.ValidationError
	switch {
	case errors.As(err, &ve) && f.invalid != "":
		c.JSON(http.StatusBadRequest, gin.H{"message": f.invalid, "errors": ve.Fields})
	case errors.Is(err, marketplace.ErrNotFound) && f.notFound != "":
		c.JSON(http.StatusNotFound, gin.H{"message": f.notFound})
	default:
		g.logger.Error(f.failed, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": f.failed})
	}
}

// bindJSON decodes the body, reporting decoding problems as validation
// errors keyed by the offending field.
func bindJSON(c *gin.Context, dest any) error {
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &marketplace.ValidationError{Fields: map[string]string{typeErr.Field: "type=" + typeErr.Type.String()}}
	}
	return &marketplace.ValidationError{Fields: map[string]string{"body": err.Error()}}
}

func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
