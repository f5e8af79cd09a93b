package domain

import "time"

type TicketStatus string

const (
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket is a user's claim on Quantity units of an event's capacity.
// Cancelled tickets are never deleted and never re-activated.
type Ticket struct {
	ID           string
	UserID       string
	EventID      string
	TicketNumber string
	Quantity     int
	TotalPrice   string
	Status       TicketStatus
	PurchaseDate time.Time
}

// EventSummary is the slice of event fields shown alongside a ticket.
type EventSummary struct {
	ID       string
	Title    string
	Date     string
	Time     string
	Location string
	Image    string
	Category string
}

// TicketWithEvent is a ticket joined with its event for user-facing views.
type TicketWithEvent struct {
	Ticket
	Event EventSummary
}

// UserStats summarizes a user's ticket activity. Totals count confirmed
// tickets only; recent tickets include cancelled ones.
type UserStats struct {
	TotalTickets   int
	TotalPurchases int
	UpcomingEvents int
	RecentTickets  []TicketWithEvent
}
