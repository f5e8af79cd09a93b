package app

import (
	"context"
	"time"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/clock"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

type TicketViewRepository interface {
	ListTicketsByUser(ctx context.Context, userID string) ([]domain.TicketWithEvent, error)
	GetTicketByIDForUser(ctx context.Context, ticketID, userID string) (domain.TicketWithEvent, error)
	GetUserTicketTotals(ctx context.Context, userID string) (totalTickets, totalPurchases int, err error)
	ListConfirmedEventDates(ctx context.Context, userID string) ([]string, error)
	ListRecentTicketsByUser(ctx context.Context, userID string, limit int) ([]domain.TicketWithEvent, error)
}

// TicketService serves read-only ticket views joined with their events. All
// lookups are scoped to the requesting user.
type TicketService struct {
	repo  TicketViewRepository
	clock clock.Clock
}

func NewTicketService(repo TicketViewRepository, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		clock: clk,
	}
}

// ListByUser returns the user's tickets, most recent purchase first.
func (s *TicketService) ListByUser(ctx context.Context, userID string) ([]domain.TicketWithEvent, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListTicketsByUser(ctx, userID)
}

func (s *TicketService) GetByIDForUser(ctx context.Context, ticketID, userID string) (domain.TicketWithEvent, error) {
	if ticketID == "" || userID == "" {
		return domain.TicketWithEvent{}, domain.ErrTicketNotFound
	}
	return s.repo.GetTicketByIDForUser(ctx, ticketID, userID)
}

const recentTicketsLimit = 5

// StatsForUser aggregates the user's ticket activity: confirmed quantity
// total, confirmed purchase count, confirmed tickets for events dated today
// or later, and the five most recent tickets. Event dates are display
// strings; ones that don't parse never count as upcoming.
func (s *TicketService) StatsForUser(ctx context.Context, userID string) (domain.UserStats, error) {
	if userID == "" {
		return domain.UserStats{}, domain.ErrInvalidID
	}

	totalTickets, totalPurchases, err := s.repo.GetUserTicketTotals(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}

	dates, err := s.repo.ListConfirmedEventDates(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	year, month, day := s.clock.Now().UTC().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	upcoming := 0
	for _, date := range dates {
		when, err := domain.ParseEventDate(date)
		if err != nil {
			continue
		}
		if !when.Before(today) {
			upcoming++
		}
	}

	recent, err := s.repo.ListRecentTicketsByUser(ctx, userID, recentTicketsLimit)
	if err != nil {
		return domain.UserStats{}, err
	}

	return domain.UserStats{
		TotalTickets:   totalTickets,
		TotalPurchases: totalPurchases,
		UpcomingEvents: upcoming,
		RecentTickets:  recent,
	}, nil
}
