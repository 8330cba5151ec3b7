package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/checkout"
	"storefront-service/internal/ledger"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/uploads"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalogService *service.CatalogService
	orderService   *service.OrderService
	checkout       *checkout.Checkout
	carts          *cart.Manager
	uploader       *uploads.Uploader
	hub            *ledger.Hub
	authClient     *fbauth.Client
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogService *service.CatalogService,
	orderService *service.OrderService,
	co *checkout.Checkout,
	carts *cart.Manager,
	uploader *uploads.Uploader,
	hub *ledger.Hub,
	authClient *fbauth.Client,
) *Handler {
	return &Handler{
		catalogService: catalogService,
		orderService:   orderService,
		checkout:       co,
		carts:          carts,
		uploader:       uploader,
		hub:            hub,
		authClient:     authClient,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(sessionMiddleware())
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PATCH("/cart/items/:productId", h.updateCartItem)
		v1.DELETE("/cart/items/:productId", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)
		v1.POST("/cart/checkout", h.finalizePurchase)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(authMiddleware(h.authClient))
	{
		admin.GET("/orders", h.listOrders)
		admin.GET("/orders/stream", h.streamOrders)
		admin.PATCH("/orders/:id/status", h.updateOrderStatus)
		admin.GET("/orders/last-failed", h.lastFailedOrder)
		admin.POST("/orders/last-failed/retry", h.retryLastFailedOrder)

		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)

		admin.POST("/categories", h.createCategory)
		admin.PUT("/categories/:id", h.updateCategory)
		admin.DELETE("/categories/:id", h.deleteCategory)

		admin.POST("/uploads", h.uploadImage)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts returns the catalog. The storefront shows active
// products by default; pass status=all to see everything.
func (h *Handler) listProducts(c *gin.Context) {
	status := c.DefaultQuery("status", models.ProductStatusActive)
	if status == "all" {
		status = ""
	}

	products, err := h.catalogService.Products(c.Request.Context(), service.ProductFilter{
		Category: c.Query("category"),
		Status:   status,
		Search:   c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load products",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct returns one product
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, product)
}

// listCategories returns the full category collection
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load categories",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// cartView is the cart plus its derived aggregates
type cartView struct {
	Items                []cart.Line `json:"items"`
	ItemsCount           int         `json:"items_count"`
	Total                float64     `json:"total"`
	HasItemsWithoutPrice bool        `json:"has_items_without_price"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{
		Items:                c.Snapshot(),
		ItemsCount:           c.ItemsCount(),
		Total:                c.Total(),
		HasItemsWithoutPrice: c.HasItemsWithoutPrice(),
	}
}

// getCart returns the session's cart
func (h *Handler) getCart(c *gin.Context) {
	crt, err := h.carts.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load cart",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, viewOf(crt))
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// addCartItem adds a catalog product to the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}

	crt, err := h.carts.AddItem(c.Request.Context(), sessionID(c), product, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update cart",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, viewOf(crt))
}

type updateQuantityRequest struct {
	// Zero removes the item, so no min bound here.
	Quantity int `json:"quantity"`
}

// updateCartItem sets a line's quantity; zero removes it
func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	crt, err := h.carts.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update cart",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, viewOf(crt))
}

// removeCartItem deletes a line
func (h *Handler) removeCartItem(c *gin.Context) {
	crt, err := h.carts.RemoveItem(c.Request.Context(), sessionID(c), c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update cart",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, viewOf(crt))
}

// clearCart empties the session's cart
func (h *Handler) clearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), sessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to clear cart",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, viewOf(cart.New()))
}

// finalizePurchase runs the checkout hand-off and returns the
// WhatsApp redirect URL
func (h *Handler) finalizePurchase(c *gin.Context) {
	result, err := h.checkout.Finalize(c.Request.Context(), sessionID(c), c.GetHeader("User-Agent"))
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Checkout failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// listOrders returns the ledger filtered by status, or focused on a
// single order when id is given
func (h *Handler) listOrders(c *gin.Context) {
	filter := service.OrderFilter{
		Status:  c.DefaultQuery("status", "all"),
		FocusID: c.Query("id"),
	}

	all, err := h.orderService.List(c.Request.Context(), service.OrderFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load orders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": service.FilterOrders(all, filter),
		"counts": service.StatusCounts(all),
	})
}

// streamOrders pushes full order snapshots to the admin view over SSE
func (h *Handler) streamOrders(c *gin.Context) {
	ch, cancel := h.hub.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("orders", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus moves an order through its lifecycle
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Status change rejected",
			"details": err.Error(),
		})
		return
	}

	// Push the new snapshot so live views update without waiting on
	// the event leg.
	if err := h.orderService.RefreshSnapshot(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": req.Status, "warning": "live view refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// lastFailedOrder exposes the retained snapshot of a checkout whose
// ledger write failed
func (h *Handler) lastFailedOrder(c *gin.Context) {
	order := h.checkout.LastFailed()
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No failed order retained"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// retryLastFailedOrder re-attempts the retained ledger write
func (h *Handler) retryLastFailedOrder(c *gin.Context) {
	order, err := h.checkout.RetryLastFailed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Retry failed",
			"details": err.Error(),
		})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No failed order retained"})
		return
	}

	_ = h.orderService.RefreshSnapshot(c.Request.Context())
	c.JSON(http.StatusCreated, order)
}

// createProduct inserts a catalog product
func (h *Handler) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalogService.CreateProduct(c.Request.Context(), &product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create product",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct rewrites a catalog product
func (h *Handler) updateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	product.ID = c.Param("id")

	if err := h.catalogService.UpdateProduct(c.Request.Context(), &product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update product",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a catalog product
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete product",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// createCategory inserts a category
func (h *Handler) createCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalogService.CreateCategory(c.Request.Context(), &category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create category",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// updateCategory updates a category
func (h *Handler) updateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	category.ID = c.Param("id")

	if err := h.catalogService.UpdateCategory(c.Request.Context(), &category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update category",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, category)
}

// deleteCategory removes a category
func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete category",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadImage validates a product image locally, then writes it to
// object storage and returns the public URL
func (h *Handler) uploadImage(c *gin.Context) {
	productID := c.PostForm("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	existing := 0
	if product, err := h.catalogService.GetProduct(c.Request.Context(), productID); err == nil {
		existing = len(product.Images)
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing image file",
			"details": err.Error(),
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if err := h.uploader.Validate(contentType, file.Size, existing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Upload rejected",
			"details": err.Error(),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read upload",
			"details": err.Error(),
		})
		return
	}
	defer src.Close()

	url, err := h.uploader.Upload(c.Request.Context(), productID, file.Filename, contentType, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Upload failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
