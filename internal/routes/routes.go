package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
)

// Options are the router settings that do not belong to the handlers.
type Options struct {
	JWTSecret  []byte
	CORSOrigin string
	// WebhookEnabled mounts the gateway webhook; it needs a signing secret.
	WebhookEnabled bool
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.GinMiddleware(h.Logger), gin.Recovery())

	// --- APPLY THE CORS GUARD ---
	router.Use(middleware.CORSMiddleware(opts.CORSOrigin))

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Public Catalog Routes ---
		v1.GET("/products", h.SearchProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.GetAllCategories)
		v1.GET("/categories/:id/products", h.GetCategoryProducts)
		v1.GET("/checkout/options", h.GetCheckoutOptions)

		// --- Gateway Webhook (signature-verified) ---
		if opts.WebhookEnabled {
			v1.POST("/webhooks/stripe", h.StripeWebhook)
		} else {
			h.Logger.Warn("stripe webhook disabled: no signing secret configured")
		}

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(opts.JWTSecret, h.Store.Users, h.Logger))
		{
			auth.GET("/account/me", h.GetMe)

			// --- Notification Routes ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)

			// --- Seller Onboarding ---
			auth.POST("/account/seller", middleware.RequireRole(models.RoleUser, models.RoleSeller), h.BecomeSeller)

			// --- Customer Routes ---
			customer := auth.Group("/")
			customer.Use(middleware.RequireRole(models.RoleUser, models.RoleAdmin))
			{
				customer.GET("/cart", h.GetCart)
				customer.POST("/cart/items", h.AddToCart)
				customer.PUT("/cart/items/:id", h.UpdateCartItem)
				customer.DELETE("/cart/items/:id", h.RemoveCartItem)

				customer.GET("/addresses", h.GetMyAddresses)
				customer.POST("/addresses", h.CreateAddress)
				customer.PUT("/addresses/:id", h.UpdateAddress)
				customer.POST("/addresses/:id/select", h.SelectAddress)

				customer.POST("/checkout", h.Checkout)
				customer.GET("/checkout/success", h.CheckoutSuccess)
				customer.GET("/checkout/cancel", h.CheckoutCancel)

				customer.GET("/orders", h.GetMyOrders)
				customer.GET("/orders/:id", h.GetMyOrder)
				customer.GET("/reviews/me", h.GetMyReviews)
			}

			// --- Seller Routes ---
			seller := auth.Group("/seller")
			seller.Use(middleware.RequireRole(models.RoleSeller))
			{
				seller.POST("/products", h.CreateProduct)
				seller.GET("/products", h.GetMyProducts)
				seller.DELETE("/products/:id", h.DeleteProduct)
				seller.POST("/categories", h.CreateCategory)
				seller.GET("/categories", h.GetAllCategories)
				seller.GET("/orders", h.GetSellerOrders)
				seller.GET("/dashboard-stats", h.GetSellerStats)
			}
			auth.GET("/uploads/auth", middleware.RequireRole(models.RoleSeller), h.GetUploadAuth)

			// --- Admin Routes ---
			admin := auth.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/products/unpublished", h.GetUnpublishedProducts)
				admin.PATCH("/products/:id/publish", h.PublishProduct)
				admin.PATCH("/products/:id/unpublish", h.UnpublishProduct)
				admin.PATCH("/users/:id/role", h.SetUserRole)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "kind": "not_found"})
	})
	return router
}
