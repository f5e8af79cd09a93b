package app

import (
	"context"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/clock"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// EventFilter narrows a catalog listing. Category "All" (or empty) matches
// every category; Search does a substring match on title, description, and
// location.
type EventFilter struct {
	Category string
	Search   string
}

type CatalogRepository interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateEvent(ctx context.Context, event domain.Event) error
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// CatalogService manages the event catalog. It never touches
// available_tickets on existing events; that counter belongs to the
// purchase engine.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

const defaultEventCapacity = 100

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

func (s *CatalogService) ListEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx, filter)
}

func (s *CatalogService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

type EventInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	Location    string
	Category    string
	Price       string
	Image       string
	TicketLink  string
}

func (in EventInput) validate() error {
	if in.Title == "" || in.Description == "" || in.Date == "" || in.Time == "" ||
		in.Location == "" || in.Category == "" || in.Price == "" || in.Image == "" ||
		in.TicketLink == "" {
		return domain.ErrEventFieldsRequired
	}
	if _, err := domain.ParsePrice(in.Price); err != nil {
		return err
	}
	return nil
}

func (s *CatalogService) CreateEvent(ctx context.Context, in EventInput) (domain.Event, error) {
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:               newID(),
		Title:            in.Title,
		Description:      in.Description,
		Date:             in.Date,
		Time:             in.Time,
		Location:         in.Location,
		Category:         in.Category,
		Price:            in.Price,
		Image:            in.Image,
		TicketLink:       in.TicketLink,
		AvailableTickets: defaultEventCapacity,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *CatalogService) UpdateEvent(ctx context.Context, eventID string, in EventInput) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	existing, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	existing.Title = in.Title
	existing.Description = in.Description
	existing.Date = in.Date
	existing.Time = in.Time
	existing.Location = in.Location
	existing.Category = in.Category
	existing.Price = in.Price
	existing.Image = in.Image
	existing.TicketLink = in.TicketLink
	existing.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateEvent(ctx, existing); err != nil {
		return domain.Event{}, err
	}
	return existing, nil
}

func (s *CatalogService) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteEvent(ctx, eventID)
}
