// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns attendance messages into ledger rows.
package queue

// Queue names.
const (
	TicketAttendedQueue     = "ticket.attended"
	EntryPassPurchasedQueue = "entrypass.purchased"
)

// TicketAttendedEvent is published when a scanner marks a ticket attended.
// The attendance consumer records it in the ledger; other consumers can
// drive notifications or live head counts without calling the platform.
type TicketAttendedEvent struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber string `json:"ticket_number"`
	EventID      string `json:"event_id"`
	StaffID      string `json:"staff_id"`
	SessionID    string `json:"session_id"`
	HeadCount    int    `json:"head_count"`
	Reconciled   bool   `json:"reconciled"`
	AttendedAt   string `json:"attended_at"`
}

// EntryPassPurchasedEvent is published when the platform accepts an entry
// pass purchase.
type EntryPassPurchasedEvent struct {
	UserID       string `json:"user_id"`
	HeadCount    int    `json:"head_count"`
	Amount       int    `json:"amount"`
	PaymentID    string `json:"payment_id"`
	NewHeadCount int    `json:"new_head_count"`
	ExpiresAt    string `json:"expires_at"`
	PurchasedAt  string `json:"purchased_at"`
}
