package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iliyamo/event-entry/internal/model"
)

// passEnvelope is {"entryPass": {...}}; a null entryPass means no pass.
type passEnvelope struct {
	EntryPass *model.EntryPass `json:"entryPass"`
}

// GetEntryPass fetches the caller's pass: GET /entrypass/me.  A missing
// pass (404 or null entryPass) is returned as nil without error.
func (c *Client) GetEntryPass(ctx context.Context, sess model.Session) (*model.EntryPass, error) {
	var env passEnvelope
	err := c.do(ctx, sess, request{
		op:     "get entry pass",
		method: http.MethodGet,
		path:   "/entrypass/me",
	}, &env)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return env.EntryPass, nil
}

// TransactionInfo describes the simulated payment behind a purchase.
type TransactionInfo struct {
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseRequest is the body of POST /entrypass/purchase.
type PurchaseRequest struct {
	HeadCount       int             `json:"headCount"`
	Amount          int             `json:"amount"`
	PaymentID       string          `json:"paymentId"`
	TransactionInfo TransactionInfo `json:"transactionInfo"`
}

// PurchaseEntryPass buys head count and returns the replacement pass.
func (c *Client) PurchaseEntryPass(ctx context.Context, sess model.Session, req PurchaseRequest) (model.EntryPass, error) {
	body, err := jsonBody(req)
	if err != nil {
		return model.EntryPass{}, fmt.Errorf("purchase entry pass: %w", err)
	}
	var env passEnvelope
	err = c.do(ctx, sess, request{
		op:          "purchase entry pass",
		method:      http.MethodPost,
		path:        "/entrypass/purchase",
		body:        body,
		contentType: "application/json",
	}, &env)
	if err != nil {
		return model.EntryPass{}, err
	}
	if env.EntryPass == nil {
		return model.EntryPass{}, fmt.Errorf("purchase entry pass: response carries no entryPass")
	}
	return *env.EntryPass, nil
}
