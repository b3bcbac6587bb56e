package model

import "time"

// Scan result statuses.
const (
	ScanSuccess = "success"
	ScanError   = "error"
)

// ScanResult is the outcome of one verify cycle.  It is treated as an
// immutable value: every change produces a new ScanResult.
type ScanResult struct {
	Status  string     `json:"status"`
	User    *Purchaser `json:"user,omitempty"`
	Tickets []Ticket   `json:"tickets,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Ticket returns the ticket with the given id from the result.
func (r ScanResult) Ticket(ticketID string) (Ticket, bool) {
	for _, t := range r.Tickets {
		if t.TicketID == ticketID {
			return t, true
		}
	}
	return Ticket{}, false
}

// WithTicket returns a copy of r where the ticket sharing t's id is
// replaced by t.  Unknown ids leave the copy unchanged.
func (r ScanResult) WithTicket(t Ticket) ScanResult {
	out := r
	out.Tickets = make([]Ticket, len(r.Tickets))
	copy(out.Tickets, r.Tickets)
	for i := range out.Tickets {
		if out.Tickets[i].TicketID == t.TicketID {
			out.Tickets[i] = t
		}
	}
	return out
}

// WithAttended returns a copy of r where the ticket is marked attended at
// the given time and can no longer be marked.
func (r ScanResult) WithAttended(ticketID string, at time.Time) ScanResult {
	t, ok := r.Ticket(ticketID)
	if !ok {
		return r
	}
	at = at.UTC()
	t.Status = TicketAttended
	t.VerifiedAt = &at
	t.CanBeMarkedAttended = false
	return r.WithTicket(t)
}
