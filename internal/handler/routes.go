package handler

import "github.com/go-chi/chi/v5"

// Routes mounts the user endpoints under /users.
func (h *UserHandler) Routes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Routes mounts the subscription endpoints under /subscriptions.
// The static /top route is registered before /{subscription_id}.
func (h *SubscriptionHandler) Routes(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/top", h.Top)
		r.Post("/users/{user_id}", h.Create)
		r.Get("/users/{user_id}", h.ListForUser)
		r.Get("/{subscription_id}", h.Get)
		r.Put("/{subscription_id}", h.Update)
		r.Delete("/{subscription_id}/users/{user_id}", h.Delete)
	})
}
