package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// TicketRepository backs the purchase engine and the ticket views. All
// purchase-engine methods run inside the transaction smuggled through the
// context by WithTx; GetEventForUpdate holds a row lock on the event for the
// rest of that transaction, so concurrent purchases of the same event
// serialize.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *TicketRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	event, err := scanEvent(r.queryRow(ctx, query, eventID))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return event, nil
}

func (r *TicketRepository) DecrementAvailableTickets(ctx context.Context, eventID string, quantity int) error {
	const stmt = `
UPDATE events
SET available_tickets = available_tickets - $2, updated_at = NOW()
WHERE id = $1 AND available_tickets >= $2`

	tag, err := r.exec(ctx, stmt, eventID, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientTickets
		}
		return fmt.Errorf("decrement available tickets: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientTickets
	}
	return nil
}

func (r *TicketRepository) IncrementAvailableTickets(ctx context.Context, eventID string, quantity int) error {
	const stmt = `
UPDATE events
SET available_tickets = available_tickets + $2, updated_at = NOW()
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, eventID, quantity)
	if err != nil {
		return fmt.Errorf("increment available tickets: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, user_id, event_id, ticket_number, quantity, total_price, status, purchase_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		ticket.ID,
		ticket.UserID,
		ticket.EventID,
		ticket.TicketNumber,
		ticket.Quantity,
		ticket.TotalPrice,
		ticket.Status,
		ticket.PurchaseDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetTicketForUpdate(ctx context.Context, ticketID, userID string) (domain.Ticket, error) {
	const query = `
SELECT id, user_id, event_id, ticket_number, quantity, total_price, status, purchase_date
FROM tickets
WHERE id = $1 AND user_id = $2
FOR UPDATE`

	var t domain.Ticket
	err := r.queryRow(ctx, query, ticketID, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.EventID,
		&t.TicketNumber,
		&t.Quantity,
		&t.TotalPrice,
		&t.Status,
		&t.PurchaseDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket for update: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) UpdateTicketStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	const stmt = `UPDATE tickets SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, ticketID, status)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

const ticketWithEventColumns = `
t.id, t.user_id, t.event_id, t.ticket_number, t.quantity, t.total_price, t.status, t.purchase_date,
e.id, e.title, e.date, e.time, e.location, e.image, e.category`

func (r *TicketRepository) ListTicketsByUser(ctx context.Context, userID string) ([]domain.TicketWithEvent, error) {
	const query = `
SELECT ` + ticketWithEventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.user_id = $1
ORDER BY t.purchase_date DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.TicketWithEvent
	for rows.Next() {
		ticket, err := scanTicketWithEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tickets: %w", rows.Err())
	}
	return tickets, nil
}

// GetUserTicketTotals sums confirmed ticket quantities and counts confirmed
// purchases for a user.
func (r *TicketRepository) GetUserTicketTotals(ctx context.Context, userID string) (int, int, error) {
	const query = `
SELECT COALESCE(SUM(quantity) FILTER (WHERE status = 'confirmed'), 0),
       COUNT(*) FILTER (WHERE status = 'confirmed')
FROM tickets
WHERE user_id = $1`

	var totalTickets, totalPurchases int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&totalTickets, &totalPurchases); err != nil {
		if isInvalidUUID(err) {
			return 0, 0, domain.ErrInvalidID
		}
		return 0, 0, fmt.Errorf("user ticket totals: %w", err)
	}
	return totalTickets, totalPurchases, nil
}

func (r *TicketRepository) ListConfirmedEventDates(ctx context.Context, userID string) ([]string, error) {
	const query = `
SELECT e.date
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.user_id = $1 AND t.status = 'confirmed'`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list confirmed event dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan event date: %w", err)
		}
		dates = append(dates, date)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event dates: %w", rows.Err())
	}
	return dates, nil
}

func (r *TicketRepository) ListRecentTicketsByUser(ctx context.Context, userID string, limit int) ([]domain.TicketWithEvent, error) {
	const query = `
SELECT ` + ticketWithEventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.user_id = $1
ORDER BY t.purchase_date DESC
LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list recent tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.TicketWithEvent
	for rows.Next() {
		ticket, err := scanTicketWithEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tickets: %w", rows.Err())
	}
	return tickets, nil
}

func (r *TicketRepository) GetTicketByIDForUser(ctx context.Context, ticketID, userID string) (domain.TicketWithEvent, error) {
	const query = `
SELECT ` + ticketWithEventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.id = $1 AND t.user_id = $2`

	ticket, err := scanTicketWithEvent(r.pool.QueryRow(ctx, query, ticketID, userID))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.TicketWithEvent{}, domain.ErrTicketNotFound
		}
		return domain.TicketWithEvent{}, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

func scanTicketWithEvent(row pgx.Row) (domain.TicketWithEvent, error) {
	var t domain.TicketWithEvent
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.EventID,
		&t.TicketNumber,
		&t.Quantity,
		&t.TotalPrice,
		&t.Status,
		&t.PurchaseDate,
		&t.Event.ID,
		&t.Event.Title,
		&t.Event.Date,
		&t.Event.Time,
		&t.Event.Location,
		&t.Event.Image,
		&t.Event.Category,
	)
	if err != nil {
		return domain.TicketWithEvent{}, err
	}
	return t, nil
}

func (r *TicketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TicketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
