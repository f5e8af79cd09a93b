package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/app"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// CatalogReader is the minimal interface needed for public catalog reads.
type CatalogReader interface {
	ListEvents(ctx context.Context, filter app.EventFilter) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// CatalogWriter is the minimal interface needed for catalog management.
type CatalogWriter interface {
	CreateEvent(ctx context.Context, in app.EventInput) (domain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, in app.EventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// HandleListEvents returns an HTTP handler for GET /api/events with optional
// category and search query params.
func HandleListEvents(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context(), app.EventFilter{
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, eventToResponse(event))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetEvent returns an HTTP handler for GET /api/events/{id}.
func HandleGetEvent(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(eventToResponse(event))
	}
}

// HandleListCategories returns an HTTP handler for GET /api/events/categories/list.
func HandleListCategories(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if categories == nil {
			categories = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(categories)
	}
}

// HandleCreateEvent returns an HTTP handler for POST /api/events.
func HandleCreateEvent(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeEventInput(w, r)
		if !ok {
			return
		}

		event, err := svc.CreateEvent(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(eventToResponse(event))
	}
}

// HandleUpdateEvent returns an HTTP handler for PUT /api/events/{id}.
func HandleUpdateEvent(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeEventInput(w, r)
		if !ok {
			return
		}

		event, err := svc.UpdateEvent(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(eventToResponse(event))
	}
}

// HandleDeleteEvent returns an HTTP handler for DELETE /api/events/{id}.
func HandleDeleteEvent(svc CatalogWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Event deleted successfully"})
	}
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	TicketLink  string `json:"ticketLink"`
}

func decodeEventInput(w http.ResponseWriter, r *http.Request) (app.EventInput, bool) {
	var req eventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return app.EventInput{}, false
	}
	return app.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		TicketLink:  req.TicketLink,
	}, true
}

type eventResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	Category         string `json:"category"`
	Price            string `json:"price"`
	Image            string `json:"image"`
	TicketLink       string `json:"ticketLink"`
	AvailableTickets int    `json:"availableTickets"`
}

func eventToResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.Date,
		Time:             e.Time,
		Location:         e.Location,
		Category:         e.Category,
		Price:            e.Price,
		Image:            e.Image,
		TicketLink:       e.TicketLink,
		AvailableTickets: e.AvailableTickets,
	}
}
