package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/inventory/pkg/app"
	"github.com/ghuser/inventory/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/inventory/services/inventory/application/services"
)

// InventoryRoutes registers item and user endpoints on the provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application) {
	Routes(r, appsvcs.New(a))
}

// Routes registers the endpoints over already-wired services.
func Routes(r chi.Router, svcs *appsvcs.Services) {
	items := handlers.NewItemHandler(svcs)
	users := handlers.NewUserHandler(svcs)

	r.Route("/items", func(r chi.Router) {
		r.Post("/", items.Create)
		r.Get("/", items.List)
		r.Get("/{id}", items.Get)
		r.Put("/{id}", items.Update)
		r.Delete("/{id}", items.Delete)
	})
	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.Create)
		r.Get("/", users.List)
		r.Get("/{id}", users.Get)
		r.Put("/{id}", users.Update)
		r.Delete("/{id}", users.Delete)
	})
}
