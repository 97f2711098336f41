// Package routes registers the HTTP API surface.
package routes

import (
	"time"

	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/rbac"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// Controllers bundles everything the API routes need.
type Controllers struct {
	Auth    *controllers.AuthController
	Catalog *controllers.CatalogController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Admin   *controllers.AdminController
}

// Register mounts the full /api surface on r.
func Register(r *router.Router, c Controllers) {
	api := r.Group("/api")

	// Auth. Login and OTP issuance carry a tighter rate limit.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", "auth.register", ctx.Wrap(c.Auth.Register))
	authGroup.Post("/login", "auth.login", ctx.Wrap(c.Auth.Login),
		middleware.RateLimit(10, time.Minute))
	authGroup.Post("/logout", "auth.logout", ctx.Wrap(c.Auth.Logout))
	authGroup.Get("/me", "auth.me", ctx.Wrap(c.Auth.Me), middleware.Auth)
	authGroup.Post("/send-otp", "auth.send_otp", ctx.Wrap(c.Auth.SendOTP),
		middleware.RateLimit(5, time.Minute))
	authGroup.Post("/verify-otp", "auth.verify_otp", ctx.Wrap(c.Auth.VerifyOTP),
		middleware.RateLimit(10, time.Minute))

	// Public catalog reads.
	api.Get("/categories", "categories.index", ctx.Wrap(c.Catalog.ListCategories))
	api.Get("/categories/{id}", "categories.show", ctx.Wrap(c.Catalog.GetCategory))
	api.Get("/subcategories", "subcategories.index", ctx.Wrap(c.Catalog.ListSubcategories))
	api.Get("/products", "products.index", ctx.Wrap(c.Product.List))
	api.Get("/products/brands", "products.brands", ctx.Wrap(c.Product.Brands))
	api.Get("/products/{id}", "products.show", ctx.Wrap(c.Product.Get))

	// Authenticated storefront actions.
	user := api.Group("", middleware.Auth)
	user.Post("/products/{id}/rate", "products.rate", ctx.Wrap(c.Product.Rate))
	user.Post("/products/{id}/comments", "products.comment", ctx.Wrap(c.Product.Comment))
	user.Get("/cart", "cart.show", ctx.Wrap(c.Cart.Get))
	user.Post("/cart/items", "cart.add", ctx.Wrap(c.Cart.AddItem))
	user.Delete("/cart/items/{productID}", "cart.remove", ctx.Wrap(c.Cart.RemoveItem))
	user.Post("/checkout", "orders.checkout", ctx.Wrap(c.Order.Checkout))
	user.Get("/orders", "orders.index", ctx.Wrap(c.Order.ListMine))
	user.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Order.Get))

	// Back office.
	admin := api.Group("/admin", middleware.Auth, rbac.Require(models.RoleAdmin))
	admin.Post("/register", "admin.register", ctx.Wrap(c.Admin.RegisterAdmin))

	admin.Post("/categories", "admin.categories.store", ctx.Wrap(c.Admin.CreateCategory))
	admin.Put("/categories/{id}", "admin.categories.update", ctx.Wrap(c.Admin.UpdateCategory))
	admin.Delete("/categories/{id}", "admin.categories.destroy", ctx.Wrap(c.Admin.DeleteCategory))

	admin.Post("/subcategories", "admin.subcategories.store", ctx.Wrap(c.Admin.CreateSubcategory))
	admin.Put("/subcategories/{id}", "admin.subcategories.update", ctx.Wrap(c.Admin.UpdateSubcategory))
	admin.Delete("/subcategories/{id}", "admin.subcategories.destroy", ctx.Wrap(c.Admin.DeleteSubcategory))

	admin.Post("/products", "admin.products.store", ctx.Wrap(c.Admin.CreateProduct))
	admin.Patch("/products/{id}", "admin.products.update", ctx.Wrap(c.Admin.PatchProduct))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(c.Admin.DeleteProduct))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(c.Admin.ListOrders))
	admin.Put("/orders/{id}/status", "admin.orders.status", ctx.Wrap(c.Admin.UpdateOrderStatus))
	admin.Delete("/orders/{id}", "admin.orders.destroy", ctx.Wrap(c.Admin.DeleteOrder))

	admin.Post("/uploads", "admin.uploads.store", ctx.Wrap(c.Admin.Upload))
}
