package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/clock"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

func TestPurchaseService_Purchase(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

	makeSvc := func(events []domain.Event, opts ...PurchaseServiceOption) (*PurchaseService, *fakePurchaseRepo) {
		repo := newFakePurchaseRepo(events, nil)
		svc := NewPurchaseService(repo, clock.NewFixed(now), opts...)
		return svc, repo
	}

	t.Run("purchases when tickets available", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "KES 1,500", AvailableTickets: 50},
		})

		ticket, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 3,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if ticket.ID == "" {
			t.Fatalf("expected ticket ID to be set")
		}
		if !strings.HasPrefix(ticket.TicketNumber, "TKT-") {
			t.Fatalf("expected TKT- prefixed ticket number, got %s", ticket.TicketNumber)
		}
		if ticket.Status != domain.TicketStatusConfirmed {
			t.Fatalf("expected status %s, got %s", domain.TicketStatusConfirmed, ticket.Status)
		}
		if ticket.TotalPrice != "KES 4,500" {
			t.Fatalf("expected total price KES 4,500, got %s", ticket.TotalPrice)
		}
		if ticket.PurchaseDate != now {
			t.Fatalf("expected purchase date %v, got %v", now, ticket.PurchaseDate)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 47 {
			t.Fatalf("expected 47 tickets left, got %d", got)
		}
		if len(repo.tickets) != 1 {
			t.Fatalf("expected 1 ticket in repo, got %d", len(repo.tickets))
		}
	})

	t.Run("fails when not enough tickets", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "KES 500", AvailableTickets: 2},
		})

		_, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 3,
		})
		if !errors.Is(err, domain.ErrInsufficientTickets) {
			t.Fatalf("expected ErrInsufficientTickets, got %v", err)
		}

		if got := repo.events["event-1"].AvailableTickets; got != 2 {
			t.Fatalf("expected availability unchanged at 2, got %d", got)
		}
		if len(repo.tickets) != 0 {
			t.Fatalf("expected no tickets written, got %d", len(repo.tickets))
		}
	})

	t.Run("exact remaining quantity drains the event", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "KES 200", AvailableTickets: 4},
		})

		_, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 4,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 0 {
			t.Fatalf("expected 0 tickets left, got %d", got)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "KES 500", AvailableTickets: 10},
		})

		for _, quantity := range []int{0, -1} {
			_, err := svc.Purchase(context.Background(), PurchaseInput{
				UserID:   "user-1",
				EventID:  "event-1",
				Quantity: quantity,
			})
			if !errors.Is(err, domain.ErrInvalidQuantity) {
				t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
			}
		}
		if repo.txCalls != 0 {
			t.Fatalf("expected no transactions, got %d", repo.txCalls)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := makeSvc(nil)

		_, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "missing",
			Quantity: 1,
		})
		if !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("malformed price aborts the purchase", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "what", AvailableTickets: 10},
		})

		_, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 1,
		})
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 10 {
			t.Fatalf("expected availability unchanged, got %d", got)
		}
	})

	t.Run("retries on storage conflict", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "KES 1,000", AvailableTickets: 5},
		})
		repo.commitErrs = []error{domain.ErrStorageConflict, domain.ErrStorageConflict}

		ticket, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 2,
		})
		if err != nil {
			t.Fatalf("expected success after retries, got %v", err)
		}
		if repo.txCalls != 3 {
			t.Fatalf("expected 3 attempts, got %d", repo.txCalls)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 3 {
			t.Fatalf("expected 3 tickets left after single committed purchase, got %d", got)
		}
		if ticket.TotalPrice != "KES 2,000" {
			t.Fatalf("expected total KES 2,000, got %s", ticket.TotalPrice)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		svc, repo := makeSvc(
			[]domain.Event{{ID: "event-1", Price: "KES 100", AvailableTickets: 5}},
			WithMaxAttempts(2),
		)
		repo.commitErrs = []error{domain.ErrStorageConflict, domain.ErrStorageConflict, domain.ErrStorageConflict}

		_, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 1,
		})
		if !errors.Is(err, domain.ErrStorageConflict) {
			t.Fatalf("expected ErrStorageConflict, got %v", err)
		}
		if repo.txCalls != 2 {
			t.Fatalf("expected 2 attempts, got %d", repo.txCalls)
		}
	})

	t.Run("stops retrying on cancelled context", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Event{
			{ID: "event-1", Price: "KES 100", AvailableTickets: 5},
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.Purchase(ctx, PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 1,
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if repo.txCalls != 0 {
			t.Fatalf("expected no attempts, got %d", repo.txCalls)
		}
	})
}

func TestPurchaseService_Cancel(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

	makeSvc := func(events []domain.Event, tickets []domain.Ticket) (*PurchaseService, *fakePurchaseRepo) {
		repo := newFakePurchaseRepo(events, tickets)
		svc := NewPurchaseService(repo, clock.NewFixed(now))
		return svc, repo
	}

	t.Run("cancel restores availability", func(t *testing.T) {
		svc, repo := makeSvc(
			[]domain.Event{{ID: "event-1", Price: "KES 500", AvailableTickets: 47}},
			[]domain.Ticket{{
				ID:       "ticket-1",
				UserID:   "user-1",
				EventID:  "event-1",
				Quantity: 3,
				Status:   domain.TicketStatusConfirmed,
			}},
		)

		if err := svc.Cancel(context.Background(), CancelInput{UserID: "user-1", TicketID: "ticket-1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := repo.events["event-1"].AvailableTickets; got != 50 {
			t.Fatalf("expected 50 tickets restored, got %d", got)
		}
		if got := repo.tickets["ticket-1"].Status; got != domain.TicketStatusCancelled {
			t.Fatalf("expected status cancelled, got %s", got)
		}
	})

	t.Run("double cancel is rejected and restores nothing", func(t *testing.T) {
		svc, repo := makeSvc(
			[]domain.Event{{ID: "event-1", Price: "KES 500", AvailableTickets: 50}},
			[]domain.Ticket{{
				ID:       "ticket-1",
				UserID:   "user-1",
				EventID:  "event-1",
				Quantity: 3,
				Status:   domain.TicketStatusCancelled,
			}},
		)

		err := svc.Cancel(context.Background(), CancelInput{UserID: "user-1", TicketID: "ticket-1"})
		if !errors.Is(err, domain.ErrTicketCancelled) {
			t.Fatalf("expected ErrTicketCancelled, got %v", err)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 50 {
			t.Fatalf("expected availability unchanged at 50, got %d", got)
		}
	})

	t.Run("another user's ticket looks missing", func(t *testing.T) {
		svc, _ := makeSvc(
			[]domain.Event{{ID: "event-1", Price: "KES 500", AvailableTickets: 50}},
			[]domain.Ticket{{
				ID:       "ticket-1",
				UserID:   "user-1",
				EventID:  "event-1",
				Quantity: 1,
				Status:   domain.TicketStatusConfirmed,
			}},
		)

		err := svc.Cancel(context.Background(), CancelInput{UserID: "user-2", TicketID: "ticket-1"})
		if !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})

	t.Run("unknown ticket", func(t *testing.T) {
		svc, _ := makeSvc(nil, nil)

		err := svc.Cancel(context.Background(), CancelInput{UserID: "user-1", TicketID: "missing"})
		if !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})

	t.Run("purchase then cancel conserves capacity", func(t *testing.T) {
		svc, repo := makeSvc(
			[]domain.Event{{ID: "event-1", Price: "KES 1,500", AvailableTickets: 100}},
			nil,
		)

		ticket, err := svc.Purchase(context.Background(), PurchaseInput{
			UserID:   "user-1",
			EventID:  "event-1",
			Quantity: 7,
		})
		if err != nil {
			t.Fatalf("purchase: %v", err)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 93 {
			t.Fatalf("expected 93 after purchase, got %d", got)
		}

		if err := svc.Cancel(context.Background(), CancelInput{UserID: "user-1", TicketID: ticket.ID}); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got := repo.events["event-1"].AvailableTickets; got != 100 {
			t.Fatalf("expected full capacity restored, got %d", got)
		}
	})
}

// fakePurchaseRepo keeps events and tickets in maps and mimics transactional
// behavior: mutations inside WithTx are rolled back when the callback or the
// injected commit error fails.
type fakePurchaseRepo struct {
	events  map[string]domain.Event
	tickets map[string]domain.Ticket

	txCalls    int
	commitErrs []error
}

func newFakePurchaseRepo(events []domain.Event, tickets []domain.Ticket) *fakePurchaseRepo {
	repo := &fakePurchaseRepo{
		events:  make(map[string]domain.Event),
		tickets: make(map[string]domain.Ticket),
	}
	for _, event := range events {
		repo.events[event.ID] = event
	}
	for _, ticket := range tickets {
		repo.tickets[ticket.ID] = ticket
	}
	return repo
}

func (f *fakePurchaseRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCalls++

	eventsSnap := make(map[string]domain.Event, len(f.events))
	for id, event := range f.events {
		eventsSnap[id] = event
	}
	ticketsSnap := make(map[string]domain.Ticket, len(f.tickets))
	for id, ticket := range f.tickets {
		ticketsSnap[id] = ticket
	}

	err := fn(ctx)
	if err == nil && len(f.commitErrs) > 0 {
		err = f.commitErrs[0]
		f.commitErrs = f.commitErrs[1:]
	}
	if err != nil {
		f.events = eventsSnap
		f.tickets = ticketsSnap
	}
	return err
}

func (f *fakePurchaseRepo) GetEventForUpdate(_ context.Context, eventID string) (domain.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakePurchaseRepo) DecrementAvailableTickets(_ context.Context, eventID string, quantity int) error {
	event, ok := f.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.AvailableTickets < quantity {
		return domain.ErrInsufficientTickets
	}
	event.AvailableTickets -= quantity
	f.events[eventID] = event
	return nil
}

func (f *fakePurchaseRepo) IncrementAvailableTickets(_ context.Context, eventID string, quantity int) error {
	event, ok := f.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.AvailableTickets += quantity
	f.events[eventID] = event
	return nil
}

func (f *fakePurchaseRepo) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	if _, ok := f.events[ticket.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakePurchaseRepo) GetTicketForUpdate(_ context.Context, ticketID, userID string) (domain.Ticket, error) {
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.UserID != userID {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakePurchaseRepo) UpdateTicketStatus(_ context.Context, ticketID string, status domain.TicketStatus) error {
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	ticket.Status = status
	f.tickets[ticketID] = ticket
	return nil
}
