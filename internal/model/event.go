package model

// Event statuses as reported by the platform.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Event is the platform's event aggregate as far as the gateway needs it.
// StartDate and EndDate are recomputed from Shows whenever the show list
// is submitted; the values read back from the platform are informational.
type Event struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Capacity    int     `json:"capacity"`
	Price       float64 `json:"price"`
	Shows       []Show  `json:"shows"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	TicketsSold int     `json:"ticketsSold"`
	Status      string  `json:"status"`
}

// FindShow returns the show with the given id.
func (e Event) FindShow(showID string) (Show, bool) {
	for _, s := range e.Shows {
		if s.ShowID == showID {
			return s, true
		}
	}
	return Show{}, false
}

// AvailableSeats returns the seats left for a show.  A per-show figure
// reported by the platform wins; otherwise the event-wide remainder
// capacity-ticketsSold is used.  The result is never negative.
func (e Event) AvailableSeats(showID string) int {
	if s, ok := e.FindShow(showID); ok && s.AvailableSeats != nil {
		if *s.AvailableSeats < 0 {
			return 0
		}
		return *s.AvailableSeats
	}
	left := e.Capacity - e.TicketsSold
	if left < 0 {
		return 0
	}
	return left
}
