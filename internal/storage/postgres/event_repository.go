package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/app"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// EventRepository backs the catalog service. It never writes
// available_tickets on existing rows; that column is owned by the purchase
// engine through TicketRepository.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, title, description, date, time, location, category, price, image, ticket_link, available_tickets, created_at, updated_at`

func (r *EventRepository) ListEvents(ctx context.Context, filter app.EventFilter) ([]domain.Event, error) {
	category := filter.Category
	if category == "All" {
		category = ""
	}
	search := ""
	if filter.Search != "" {
		search = "%" + filter.Search + "%"
	}

	const query = `
SELECT ` + eventColumns + `
FROM events
WHERE ($1 = '' OR category = $1)
  AND ($2 = '' OR title ILIKE $2 OR description ILIKE $2 OR location ILIKE $2)
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, category, search)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) ListCategories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM events ORDER BY category`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}
	return categories, nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, title, description, date, time, location, category, price, image, ticket_link, available_tickets, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.Category,
		event.Price,
		event.Image,
		event.TicketLink,
		event.AvailableTickets,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET title = $2, description = $3, date = $4, time = $5, location = $6,
    category = $7, price = $8, image = $9, ticket_link = $10, updated_at = $11
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.Category,
		event.Price,
		event.Image,
		event.TicketLink,
		event.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	const stmt = `DELETE FROM events WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventHasTickets
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Time,
		&e.Location,
		&e.Category,
		&e.Price,
		&e.Image,
		&e.TicketLink,
		&e.AvailableTickets,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}
