package app

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

const ticketNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const ticketNumberSuffixLen = 9

// newTicketNumber builds the human-readable ticket number printed on
// receipts, e.g. TKT-1748851494123-3F9A2C7B1. The millisecond timestamp
// keeps numbers sortable; the random suffix keeps them unique within a
// millisecond.
func newTicketNumber(now time.Time) string {
	suffix := make([]byte, ticketNumberSuffixLen)
	if _, err := rand.Read(suffix); err != nil {
		copy(suffix, uuid.NewString())
	}
	for i := range suffix {
		suffix[i] = ticketNumberAlphabet[int(suffix[i])%len(ticketNumberAlphabet)]
	}
	return fmt.Sprintf("TKT-%d-%s", now.UnixMilli(), suffix)
}
