// Package router sets up all HTTP routes and middleware chains for the
// affiliate desk API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"affiliatedesk/internal/handlers"
	"affiliatedesk/internal/middleware"
)

// New creates and returns the configured Chi router. commandLimiter guards
// the natural-language command route; nil disables limiting.
func New(api *handlers.API, commandLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", api.Dashboard)

		r.Route("/affiliates", func(r chi.Router) {
			r.Get("/", api.AffiliatesList)
			r.Post("/", api.AffiliateCreate)
			r.Put("/{id}", api.AffiliateUpdate)
			r.Delete("/{id}", api.AffiliateDelete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", api.ProductsList)
			r.Post("/", api.ProductCreate)
			r.Put("/{id}", api.ProductUpdate)
			r.Delete("/{id}", api.ProductDelete)
		})

		r.Route("/samples", func(r chi.Router) {
			r.Get("/", api.SamplesList)
			r.Post("/", api.SampleCreate)
			r.Put("/{id}", api.SampleUpdate)
			r.Delete("/{id}", api.SampleDelete)
			r.Patch("/{id}/status", api.SampleStatus)
			r.Get("/{id}/reminder", api.SampleReminder)
		})

		// Content bank
		r.Route("/content", func(r chi.Router) {
			r.Get("/", api.ContentTree)
			r.Post("/", api.ContentCreate)
			r.Put("/{id}", api.ContentUpdate)
			r.Delete("/{id}", api.ContentDelete)
			r.Post("/{id}/toggle", api.ContentToggle)
		})

		// WhatsApp messaging
		r.Get("/templates", api.Templates)
		r.Post("/whatsapp/compose", api.Compose)
		r.Get("/whatsapp/qr", api.QR)

		r.Route("/broadcast", func(r chi.Router) {
			r.Get("/", api.BroadcastView)
			r.Post("/select", api.BroadcastSelect)
			r.Post("/deselect", api.BroadcastDeselect)
			r.Post("/select-all", api.BroadcastSelectAll)
			r.Post("/template", api.BroadcastTemplate)
			r.Post("/reset", api.BroadcastReset)
			r.Post("/dispatch", api.BroadcastDispatch)
		})

		r.Get("/assistant", api.Assistant)
		r.Put("/assistant", api.AssistantSelect)

		// Every command costs an LLM call.
		r.Group(func(r chi.Router) {
			if commandLimiter != nil {
				r.Use(commandLimiter.Middleware)
			}
			r.Post("/command", api.Command)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
