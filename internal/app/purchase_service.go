package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/clock"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/metrics"
)

// PurchaseRepository is the storage contract of the purchase engine. The
// availability check, the counter mutation, and the ledger write must all run
// inside a single WithTx callback; GetEventForUpdate must take a row-level
// exclusive lock on the event so concurrent purchases serialize per event.
type PurchaseRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	DecrementAvailableTickets(ctx context.Context, eventID string, quantity int) error
	IncrementAvailableTickets(ctx context.Context, eventID string, quantity int) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	GetTicketForUpdate(ctx context.Context, ticketID, userID string) (domain.Ticket, error)
	UpdateTicketStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error
}

// PurchaseService is the only component that mutates available_tickets.
type PurchaseService struct {
	repo        PurchaseRepository
	clock       clock.Clock
	maxAttempts int
}

const defaultMaxAttempts = 3

func NewPurchaseService(repo PurchaseRepository, clk clock.Clock, opts ...PurchaseServiceOption) *PurchaseService {
	svc := &PurchaseService{
		repo:        repo,
		clock:       clk,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type PurchaseServiceOption func(*PurchaseService)

// WithMaxAttempts overrides how many times a transiently conflicting
// transaction is retried from the top.
func WithMaxAttempts(n int) PurchaseServiceOption {
	return func(s *PurchaseService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

type PurchaseInput struct {
	UserID   string
	EventID  string
	Quantity int
}

// Purchase checks availability, decrements the event counter, and inserts a
// confirmed ticket as one atomic unit. On insufficient inventory nothing is
// written and the caller sees ErrInsufficientTickets.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (domain.Ticket, error) {
	if in.Quantity <= 0 {
		return domain.Ticket{}, domain.ErrInvalidQuantity
	}
	if in.UserID == "" || in.EventID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}

	timer := metrics.NewTimer()
	var ticket domain.Ticket

	err := s.withRetry(ctx, func() error {
		return s.repo.WithTx(ctx, func(txCtx context.Context) error {
			event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
			if err != nil {
				return err
			}
			if event.AvailableTickets < in.Quantity {
				return domain.ErrInsufficientTickets
			}

			price, err := domain.ParsePrice(event.Price)
			if err != nil {
				return fmt.Errorf("event %s price %q: %w", event.ID, event.Price, err)
			}

			now := s.clock.Now()
			candidate := domain.Ticket{
				ID:           newID(),
				UserID:       in.UserID,
				EventID:      event.ID,
				TicketNumber: newTicketNumber(now),
				Quantity:     in.Quantity,
				TotalPrice:   price.Mul(in.Quantity).String(),
				Status:       domain.TicketStatusConfirmed,
				PurchaseDate: now,
			}

			if err := s.repo.DecrementAvailableTickets(txCtx, event.ID, in.Quantity); err != nil {
				return err
			}
			if err := s.repo.CreateTicket(txCtx, candidate); err != nil {
				return err
			}

			ticket = candidate
			return nil
		})
	})
	metrics.ObservePurchase(outcomeLabel(err), timer)
	if err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

type CancelInput struct {
	UserID   string
	TicketID string
}

// Cancel flips a confirmed ticket to cancelled and returns its quantity to
// the event, atomically. The lookup is ownership-scoped: a ticket owned by a
// different user is indistinguishable from a missing one.
func (s *PurchaseService) Cancel(ctx context.Context, in CancelInput) error {
	if in.UserID == "" || in.TicketID == "" {
		return domain.ErrTicketNotFound
	}

	timer := metrics.NewTimer()
	err := s.withRetry(ctx, func() error {
		return s.repo.WithTx(ctx, func(txCtx context.Context) error {
			ticket, err := s.repo.GetTicketForUpdate(txCtx, in.TicketID, in.UserID)
			if err != nil {
				return err
			}
			if ticket.Status == domain.TicketStatusCancelled {
				return domain.ErrTicketCancelled
			}

			if err := s.repo.UpdateTicketStatus(txCtx, ticket.ID, domain.TicketStatusCancelled); err != nil {
				return err
			}
			return s.repo.IncrementAvailableTickets(txCtx, ticket.EventID, ticket.Quantity)
		})
	})
	metrics.ObserveCancel(outcomeLabel(err), timer)
	return err
}

// withRetry re-runs the whole transaction when the store reports a transient
// serialization conflict. Partial retries are impossible: the closure always
// starts again from the availability check.
func (s *PurchaseService) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if !errors.Is(err, domain.ErrStorageConflict) {
			return err
		}
	}
	return err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientTickets):
		return "insufficient"
	case errors.Is(err, domain.ErrTicketCancelled):
		return "already_cancelled"
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrTicketNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStorageConflict):
		return "conflict"
	default:
		return "error"
	}
}
