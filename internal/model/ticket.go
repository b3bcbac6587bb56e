package model

import "time"

// Ticket statuses.  The gateway only ever moves a ticket forward to
// TicketAttended; every other transition belongs to the platform.
const (
	TicketPending    = "pending"
	TicketActive     = "active"
	TicketRegistered = "registered"
	TicketUsed       = "used"
	TicketAttended   = "attended"
	TicketCancelled  = "cancelled"
	TicketExpired    = "expired"
)

// Ticket is a booked ticket as returned by the verify endpoint.  HeadCount,
// TotalAmount and PaymentStatus are enrichment fields: the verify call may
// omit them, in which case they are filled from the ticket detail endpoint.
type Ticket struct {
	TicketID            string     `json:"ticketId"`
	TicketNumber        string     `json:"ticketNumber"`
	EventID             string     `json:"eventId"`
	Status              string     `json:"status"`
	HeadCount           *int       `json:"headCount,omitempty"`
	TotalAmount         *float64   `json:"totalAmount,omitempty"`
	PaymentStatus       string     `json:"paymentStatus,omitempty"`
	PurchaseDate        *time.Time `json:"purchaseDate,omitempty"`
	VerifiedAt          *time.Time `json:"verifiedAt,omitempty"`
	CanBeMarkedAttended bool       `json:"canBeMarkedAttended"`
	CanVerify           bool       `json:"canVerify"`
	IsEventActive       bool       `json:"isEventActive"`
}

// NeedsEnrichment reports whether any enrichment field is missing.
func (t Ticket) NeedsEnrichment() bool {
	return t.HeadCount == nil || t.TotalAmount == nil || t.PaymentStatus == ""
}

// TicketDetail is the payload of the per-ticket detail endpoint.
type TicketDetail struct {
	TicketID      string     `json:"ticketId"`
	Status        string     `json:"status"`
	HeadCount     int        `json:"headCount"`
	TotalAmount   float64    `json:"totalAmount"`
	PaymentStatus string     `json:"paymentStatus"`
	PurchaseDate  *time.Time `json:"purchaseDate,omitempty"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
}

// Enrich returns a copy of t with the detail's enrichment fields merged in.
// Fields already present on t are kept.
func (t Ticket) Enrich(d TicketDetail) Ticket {
	if t.HeadCount == nil {
		hc := d.HeadCount
		t.HeadCount = &hc
	}
	if t.TotalAmount == nil {
		amt := d.TotalAmount
		t.TotalAmount = &amt
	}
	if t.PaymentStatus == "" {
		t.PaymentStatus = d.PaymentStatus
	}
	if t.PurchaseDate == nil && d.PurchaseDate != nil {
		pd := *d.PurchaseDate
		t.PurchaseDate = &pd
	}
	return t
}

// Purchaser identifies the customer a scanned code belongs to.
type Purchaser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
