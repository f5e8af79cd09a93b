package domain

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a schedulable happening with a ticket price and a finite
// number of sellable tickets. AvailableTickets is the remaining unclaimed
// capacity; it is mutated only by the purchase engine, inside the same
// transaction as the corresponding ticket write.
type Event struct {
	ID               string
	Title            string
	Description      string
	Date             string
	Time             string
	Location         string
	Category         string
	Price            string
	Image            string
	TicketLink       string
	AvailableTickets int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// eventDateLayouts lists the date spellings the catalog stores, display
// form first ("March 15, 2026").
var eventDateLayouts = []string{"January 2, 2006", "Jan 2, 2006", "2006-01-02"}

// ParseEventDate parses a stored display date into a UTC midnight instant.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event date %q", s)
}
