package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/app"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// TicketPurchaser is the minimal interface needed to purchase tickets.
type TicketPurchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (domain.Ticket, error)
}

// TicketCanceller is the minimal interface needed to cancel a ticket.
type TicketCanceller interface {
	Cancel(ctx context.Context, in app.CancelInput) error
}

// TicketViewer is the minimal interface needed for ticket read views.
type TicketViewer interface {
	ListByUser(ctx context.Context, userID string) ([]domain.TicketWithEvent, error)
	GetByIDForUser(ctx context.Context, ticketID, userID string) (domain.TicketWithEvent, error)
}

// StatsViewer is the minimal interface needed for the user statistics view.
type StatsViewer interface {
	StatsForUser(ctx context.Context, userID string) (domain.UserStats, error)
}

// HandlePurchaseTickets returns an HTTP handler for POST /api/tickets/purchase.
func HandlePurchaseTickets(purchases TicketPurchaser, tickets TicketViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventID == "" || req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, "event ID and quantity are required")
			return
		}

		userID := UserIDFromContext(r.Context())
		ticket, err := purchases.Purchase(r.Context(), app.PurchaseInput{
			UserID:   userID,
			EventID:  req.EventID,
			Quantity: req.Quantity,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := purchaseResponse{
			Message: "Tickets purchased successfully",
			Ticket:  ticketToResponse(ticket),
		}
		// Enrich with the event summary when the joined read succeeds; the
		// purchase itself has already committed.
		if joined, err := tickets.GetByIDForUser(r.Context(), ticket.ID, userID); err == nil {
			resp.Ticket = ticketWithEventToResponse(joined)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleCancelTicket returns an HTTP handler for DELETE /api/tickets/{id}.
func HandleCancelTicket(svc TicketCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Cancel(r.Context(), app.CancelInput{
			UserID:   UserIDFromContext(r.Context()),
			TicketID: chi.URLParam(r, "id"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Ticket cancelled successfully"})
	}
}

// HandleMyTickets returns an HTTP handler for GET /api/tickets/my-tickets.
func HandleMyTickets(svc TicketViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickets, err := svc.ListByUser(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]ticketResponse, 0, len(tickets))
		for _, ticket := range tickets {
			resp = append(resp, ticketWithEventToResponse(ticket))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetTicket returns an HTTP handler for GET /api/tickets/{id}.
func HandleGetTicket(svc TicketViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticket, err := svc.GetByIDForUser(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ticketWithEventToResponse(ticket))
	}
}

// HandleUserStats returns an HTTP handler for GET /api/users/stats.
func HandleUserStats(svc StatsViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.StatsForUser(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		recent := make([]ticketResponse, 0, len(stats.RecentTickets))
		for _, ticket := range stats.RecentTickets {
			recent = append(recent, ticketWithEventToResponse(ticket))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statsResponse{
			TotalTickets:   stats.TotalTickets,
			TotalPurchases: stats.TotalPurchases,
			UpcomingEvents: stats.UpcomingEvents,
			RecentTickets:  recent,
		})
	}
}

type purchaseRequest struct {
	EventID  string `json:"eventId"`
	Quantity int    `json:"quantity"`
}

type purchaseResponse struct {
	Message string         `json:"message"`
	Ticket  ticketResponse `json:"ticket"`
}

type ticketResponse struct {
	ID           string               `json:"id"`
	TicketNumber string               `json:"ticketNumber"`
	Quantity     int                  `json:"quantity"`
	TotalPrice   string               `json:"totalPrice"`
	Status       string               `json:"status"`
	PurchaseDate time.Time            `json:"purchaseDate"`
	Event        *ticketEventResponse `json:"event,omitempty"`
}

type statsResponse struct {
	TotalTickets   int              `json:"totalTickets"`
	TotalPurchases int              `json:"totalPurchases"`
	UpcomingEvents int              `json:"upcomingEvents"`
	RecentTickets  []ticketResponse `json:"recentTickets"`
}

type ticketEventResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category,omitempty"`
}

func ticketToResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:           t.ID,
		TicketNumber: t.TicketNumber,
		Quantity:     t.Quantity,
		TotalPrice:   t.TotalPrice,
		Status:       string(t.Status),
		PurchaseDate: t.PurchaseDate,
	}
}

func ticketWithEventToResponse(t domain.TicketWithEvent) ticketResponse {
	resp := ticketToResponse(t.Ticket)
	resp.Event = &ticketEventResponse{
		ID:       t.Event.ID,
		Title:    t.Event.Title,
		Date:     t.Event.Date,
		Time:     t.Event.Time,
		Location: t.Event.Location,
		Image:    t.Event.Image,
		Category: t.Event.Category,
	}
	return resp
}
