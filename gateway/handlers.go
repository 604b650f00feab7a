package gateway

import (
	"math"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/agbado/pkg/marketplace"
	"github.com/example/agbado/pkg/models"
	"github.com/gin-gonic/gin"
)

func (g *Gateway) listServiceCategories(c *gin.Context) {
	categories, err := g.catalog.ListServiceCategories(c.Request.Context())
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch service categories"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(categories))
}

func (g *Gateway) listProviders(c *gin.Context) {
	f := marketplace.ProviderFilter{Category: c.Query("category")}
	providers, err := g.catalog.ListProviders(c.Request.Context(), f)
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch providers"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(providers))
}

func (g *Gateway) getProvider(c *gin.Context) {
	provider, err := g.catalog.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err, failure{notFound: "Provider not found", failed: "Failed to fetch provider"})
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (g *Gateway) listProducts(c *gin.Context) {
	f := marketplace.ProductFilter{
		Category: c.Query("category"),
		Featured: c.Query("featured") == "true",
	}
	products, err := g.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(products))
}

func (g *Gateway) getProduct(c *gin.Context) {
	product, err := g.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err, failure{notFound: "Product not found", failed: "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// getCart returns the cart lines, each joined with its product (null when the
// product is gone).
func (g *Gateway) getCart(c *gin.Context) {
	cart, err := g.svc.Cart(c.Request.Context(), g.userID())
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch cart items"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(cart.Items))
}

func (g *Gateway) getCartSummary(c *gin.Context) {
	cart, err := g.svc.Cart(c.Request.Context(), g.userID())
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch cart items"})
		return
	}

	fee := g.config.Marketplace.ShippingFee
	c.JSON(http.StatusOK, gin.H{
		"totalItems":  cart.TotalItems,
		"totalPrice":  cart.TotalPrice,
		"shippingFee": fee,
		"total":       cart.TotalPrice + fee,
	})
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (g *Gateway) addToCart(c *gin.Context) {
	fail := failure{invalid: "Invalid cart item data", failed: "Failed to add item to cart"}

	var req addToCartRequest
	if err := bindJSON(c, &req); err != nil {
		g.fail(c, err, fail)
		return
	}

	in := marketplace.AddToCartInput{UserID: g.userID(), ProductID: req.ProductID, Quantity: 1}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}

	item, err := g.svc.AddToCart(c.Request.Context(), in)
	if err != nil {
		g.fail(c, err, fail)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type updateCartItemRequest struct {
	Quantity *float64 `json:"quantity"`
}

// updateCartItem only accepts whole quantities of at least one; removal goes
// through DELETE.
func (g *Gateway) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil ||
		*req.Quantity < 1 || *req.Quantity != math.Trunc(*req.Quantity) || *req.Quantity > marketplace.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantity"})
		return
	}

	item, err := g.svc.SetQuantity(c.Request.Context(), c.Param("id"), int(*req.Quantity))
	if err != nil {
		g.fail(c, err, failure{notFound: "Cart item not found", failed: "Failed to update cart item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	removed, err := g.svc.RemoveCartItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to remove item from cart"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

type createOrderRequest struct {
	Total           int    `json:"total"`
	ShippingAddress string `json:"shippingAddress"`
}

func (g *Gateway) createOrder(c *gin.Context) {
	fail := failure{invalid: "Invalid order data", failed: "Failed to create order"}

	var req createOrderRequest
	if err := bindJSON(c, &req); err != nil {
		g.fail(c, err, fail)
		return
	}

	order, err := g.orders.PlaceOrder(c.Request.Context(), marketplace.PlaceOrderInput{
		UserID:          g.userID(),
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		g.fail(c, err, fail)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (g *Gateway) listOrders(c *gin.Context) {
	orders, err := g.orders.ListOrders(c.Request.Context(), g.userID())
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(orders))
}

func (g *Gateway) getOrder(c *gin.Context) {
	order, err := g.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err, failure{notFound: "Order not found", failed: "Failed to fetch order"})
		return
	}
	// orders are private to their owner
	if order.UserID != g.userID() {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	order.Items = orEmpty(order.Items)
	c.JSON(http.StatusOK, order)
}

type createBookingRequest struct {
	ProviderID         string    `json:"providerId"`
	ServiceDescription string    `json:"serviceDescription"`
	ScheduledDate      time.Time `json:"scheduledDate"`
	TotalCost          int       `json:"totalCost"`
}

func (g *Gateway) createBooking(c *gin.Context) {
	fail := failure{invalid: "Invalid booking data", failed: "Failed to create booking"}

	var req createBookingRequest
	if err := bindJSON(c, &req); err != nil {
		g.fail(c, err, fail)
		return
	}

	booking, err := g.orders.CreateBooking(c.Request.Context(), marketplace.BookingInput{
		UserID:             g.userID(),
		ProviderID:         req.ProviderID,
		ServiceDescription: req.ServiceDescription,
		ScheduledDate:      req.ScheduledDate,
		TotalCost:          req.TotalCost,
	})
	if err != nil {
		g.fail(c, err, fail)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (g *Gateway) listBookings(c *gin.Context) {
	bookings, err := g.orders.ListBookings(c.Request.Context(), g.userID())
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(bookings))
}

// search answers queries shorter than the configured minimum with empty
// lists instead of running them.
func (g *Gateway) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Search query is required"})
		return
	}

	scope, err := marketplace.ParseScope(c.Query("type"))
	if err != nil {
		g.fail(c, err, failure{invalid: "Invalid search type", failed: "Search failed"})
		return
	}

	if utf8.RuneCountInString(query) < g.config.Marketplace.SearchMinLength {
		c.JSON(http.StatusOK, marketplace.SearchResult{
			Services:  []models.ServiceCategory{},
			Products:  []models.Product{},
			Providers: []models.Provider{},
		})
		return
	}

	result, err := g.catalog.Search(c.Request.Context(), query, scope)
	if err != nil {
		g.fail(c, err, failure{invalid: "Invalid search", failed: "Search failed"})
		return
	}
	result.Services = orEmpty(result.Services)
	result.Products = orEmpty(result.Products)
	result.Providers = orEmpty(result.Providers)
	c.JSON(http.StatusOK, result)
}

func (g *Gateway) listNotifications(c *gin.Context) {
	if g.feed == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	notes, err := g.feed.Recent(c.Request.Context(), g.userID())
	if err != nil {
		g.fail(c, err, failure{failed: "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(notes))
}

func (g *Gateway) createUser(c *gin.Context) {
	fail := failure{invalid: "Invalid user data", failed: "Failed to create user"}

	var req marketplace.RegisterUserInput
	if err := bindJSON(c, &req); err != nil {
		g.fail(c, err, fail)
		return
	}

	user, err := g.svc.RegisterUser(c.Request.Context(), req)
	if err != nil {
		g.fail(c, err, fail)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (g *Gateway) getUser(c *gin.Context) {
	user, err := g.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err, failure{notFound: "User not found", failed: "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}
