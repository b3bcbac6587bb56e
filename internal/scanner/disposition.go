package scanner

import "github.com/iliyamo/event-entry/internal/model"

// Disposition is how a ticket of a scan result is presented to staff.
type Disposition string

const (
	Markable    Disposition = "markable"
	Attended    Disposition = "attended"
	NotAssigned Disposition = "not_assigned"
	Inactive    Disposition = "inactive"
	Cancelled   Disposition = "cancelled"
	Expired     Disposition = "expired"
	Pending     Disposition = "pending"
)

// ActionMarkAttended is the only staff action a ticket can offer.
const ActionMarkAttended = "mark_attended"

// Classify picks the disposition of a ticket.  A registered ticket the
// platform will not verify for this event belongs to the purchaser but
// not to the selected event; that is informational, not an error, and
// wins over any markable flag.
func Classify(t model.Ticket) Disposition {
	switch {
	case t.Status == model.TicketRegistered && !t.CanVerify:
		return NotAssigned
	case t.CanBeMarkedAttended:
		return Markable
	case t.Status == model.TicketAttended || t.Status == model.TicketUsed:
		return Attended
	case t.Status == model.TicketCancelled:
		return Cancelled
	case t.Status == model.TicketExpired:
		return Expired
	case !t.IsEventActive:
		return Inactive
	}
	return Pending
}

// Label is the text shown next to a ticket.
func (d Disposition) Label() string {
	switch d {
	case Markable:
		return "Valid for entry"
	case Attended:
		return "Already attended"
	case NotAssigned:
		return "Not assigned to this event"
	case Cancelled:
		return "Ticket cancelled"
	case Expired:
		return "Ticket expired"
	case Inactive:
		return "Event is not active"
	}
	return "Awaiting confirmation"
}

// Actions lists the staff actions offered for the disposition.
func (d Disposition) Actions() []string {
	if d == Markable {
		return []string{ActionMarkAttended}
	}
	return []string{}
}

// TicketView is a ticket with its presentation.
type TicketView struct {
	model.Ticket
	Disposition Disposition `json:"disposition"`
	Label       string      `json:"label"`
	Actions     []string    `json:"actions"`
}

// ResultView is a scan result ready for the scanner UI.
type ResultView struct {
	Status  string           `json:"status"`
	User    *model.Purchaser `json:"user,omitempty"`
	Tickets []TicketView     `json:"tickets"`
	Message string           `json:"message,omitempty"`
}

// Present renders a scan result.
func Present(r model.ScanResult) ResultView {
	v := ResultView{Status: r.Status, User: r.User, Message: r.Message, Tickets: make([]TicketView, 0, len(r.Tickets))}
	for _, t := range r.Tickets {
		d := Classify(t)
		v.Tickets = append(v.Tickets, TicketView{Ticket: t, Disposition: d, Label: d.Label(), Actions: d.Actions()})
	}
	return v
}
