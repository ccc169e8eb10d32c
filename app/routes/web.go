// Package routes wires URLs to controllers.
package routes

import (
	"github.com/bloomcart/bloomcart/app/controllers"
	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/rbac"
	"github.com/bloomcart/bloomcart/pkg/router"
)

// Register mounts every route. The admin controller is built by the
// kernel because it carries the WebSocket hub.
func Register(r *router.Router, admin *controllers.AdminController) {
	catalog := controllers.NewCatalogController()
	auth := controllers.NewAuthController()
	orders := controllers.NewOrderController()
	tokens := controllers.NewTokenController()

	// Storefront. Browsing is public; placing an order is not.
	r.Get("/", "catalog.index", catalog.Index)
	r.Post("/", "order.place", catalog.Place, middleware.RequireAuth)

	// Account pages. Login and register only make sense anonymously.
	r.Get("/login", "auth.login", auth.ShowLogin, rbac.Guest)
	r.Post("/login", "auth.login.submit", auth.Login, rbac.Guest)
	r.Get("/register", "auth.register", auth.ShowRegister, rbac.Guest)
	r.Post("/register", "auth.register.submit", auth.Register, rbac.Guest)
	r.Get("/logout", "auth.logout", auth.Logout)

	// Owner-scoped order surfaces.
	r.Get("/profile", "order.profile", orders.Profile, middleware.RequireAuth)
	r.Get("/download/docx/{id}", "order.download.docx", orders.DownloadDOCX, middleware.RequireAuth)
	r.Get("/download/pdf/{id}", "order.download.pdf", orders.DownloadPDF, middleware.RequireAuth)

	// Programmatic token issuance for API clients.
	r.Post("/api/token", "token.issue", tokens.Issue)

	// Privileged surfaces: one shared admin predicate guards them all.
	adm := r.Group("", rbac.HasRole(models.RoleAdmin))
	adm.Get("/graphql", "admin.graphql", admin.GraphQL)
	adm.Post("/graphql", "admin.graphql.post", admin.GraphQL)
	adm.Get("/admin/orders/live", "admin.orders.live", admin.LiveFeed)
}
