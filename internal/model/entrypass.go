package model

import "time"

// EntryPass is a customer's prepaid head-count quota.  A nil *EntryPass
// means the customer has no pass at all, which is a valid state.
type EntryPass struct {
	HeadCount int       `json:"headCount"`
	ExpiresAt time.Time `json:"expiresAt"`
}
