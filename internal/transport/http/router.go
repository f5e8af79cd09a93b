package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Catalog interface {
		CatalogReader
		CatalogWriter
	}
	Purchases interface {
		TicketPurchaser
		TicketCanceller
	}
	Tickets interface {
		TicketViewer
		StatsViewer
	}
	Auth interface {
		Registrar
		Authenticator
		ProfileService
	}
	Verifier    TokenVerifier
	CORSOrigins []string
}

// NewRouter wires every endpoint. Catalog reads are public; ticket and
// profile endpoints, and catalog mutations, require a Bearer token.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	requireAuth := RequireAuth(deps.Verifier)

	r.Get("/health", HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", HandleListEvents(deps.Catalog))
			r.Get("/categories/list", HandleListCategories(deps.Catalog))
			r.Get("/{id}", HandleGetEvent(deps.Catalog))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", HandleCreateEvent(deps.Catalog))
				r.Put("/{id}", HandleUpdateEvent(deps.Catalog))
				r.Delete("/{id}", HandleDeleteEvent(deps.Catalog))
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", HandleRegister(deps.Auth))
			r.Post("/login", HandleLogin(deps.Auth))
			r.With(requireAuth).Get("/me", HandleGetProfile(deps.Auth))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", HandleGetProfile(deps.Auth))
			r.Put("/profile", HandleUpdateProfile(deps.Auth))
			r.Get("/stats", HandleUserStats(deps.Tickets))
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/my-tickets", HandleMyTickets(deps.Tickets))
			r.Post("/purchase", HandlePurchaseTickets(deps.Purchases, deps.Tickets))
			r.Get("/{id}", HandleGetTicket(deps.Tickets))
			r.Delete("/{id}", HandleCancelTicket(deps.Purchases))
		})
	})

	r.NotFound(NotFoundHandler().ServeHTTP)

	return CORS(deps.CORSOrigins, r)
}
