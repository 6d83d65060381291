// Package payments talks to the hosted card checkout provider.
package payments

import (
	"context"
	"errors"
)

// LineItem is one charged line on the hosted checkout page. UnitAmount is in minor units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	ProductID  int64
	Image      string
}

// SessionRequest describes a hosted checkout session for one order.
type SessionRequest struct {
	OrderID        int64
	CustomerID     int64
	CustomerName   string
	CustomerEmail  string
	Lines          []LineItem
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

// Total is what the provider will charge for the request.
func (r SessionRequest) Total() int64 {
	var t int64
	for _, l := range r.Lines {
		t += l.UnitAmount * l.Quantity
	}
	return t
}

// SessionStatus is what we learn back from the provider about a session.
type SessionStatus struct {
	SessionID  string
	OrderID    int64
	CustomerID int64
	Paid       bool
}

var ErrMissingMetadata = errors.New("payment session has no order metadata")

// Gateway creates hosted sessions and reports their outcome.
type Gateway interface {
	// CreateCheckoutSession returns the URL to redirect the customer to.
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (string, error)
	// Session looks up a session by id.
	Session(ctx context.Context, sessionID string) (*SessionStatus, error)
	// ParseWebhook verifies a webhook delivery. handled is false for event types we ignore.
	ParseWebhook(payload []byte, signature string) (status *SessionStatus, handled bool, err error)
}
