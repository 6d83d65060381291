package payments

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway with Stripe Checkout.
type StripeGateway struct {
	api           *client.API
	currency      string
	webhookSecret string
	logger        *zap.Logger
}

func NewStripeGateway(secretKey, currency, webhookSecret string, logger *zap.Logger) *StripeGateway {
	return NewStripeGatewayWithBackends(secretKey, currency, webhookSecret, nil, logger)
}

// NewStripeGatewayWithBackends lets tests point the client at a fake API server.
func NewStripeGatewayWithBackends(secretKey, currency, webhookSecret string, backends *stripe.Backends, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, backends),
		currency:      currency,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (string, error) {
	// 1. --- Line items ---
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines))
	for _, l := range req.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(l.Name),
		}
		if l.Image != "" {
			product.Images = stripe.StringSlice([]string{l.Image})
		}
		if l.ProductID != 0 {
			product.Metadata = map[string]string{"id": strconv.FormatInt(l.ProductID, 10)}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(g.currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(l.UnitAmount),
			},
			Quantity: stripe.Int64(l.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		InvoiceCreation: &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	// 2. --- Reuse the Stripe customer when one exists for this email ---
	if customerID := g.findCustomer(ctx, req.CustomerEmail); customerID != "" {
		params.Customer = stripe.String(customerID)
	} else if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	// 3. --- Metadata read back by the webhook and the success page ---
	params.AddMetadata("orderId", strconv.FormatInt(req.OrderID, 10))
	params.AddMetadata("userId", strconv.FormatInt(req.CustomerID, 10))
	params.AddMetadata("customerName", req.CustomerName)
	params.AddMetadata("customerEmail", req.CustomerEmail)

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	g.logger.Info("stripe checkout session created",
		zap.String("session_id", s.ID), zap.Int64("order_id", req.OrderID))
	return s.URL, nil
}

// findCustomer returns the id of an existing Stripe customer with this email, or "".
// Lookup failures fall back to a guest checkout.
func (g *StripeGateway) findCustomer(ctx context.Context, email string) string {
	if email == "" {
		return ""
	}
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	it := g.api.Customers.List(params)
	if it.Next() {
		return it.Customer().ID
	}
	if err := it.Err(); err != nil {
		g.logger.Warn("stripe customer lookup failed", zap.Error(err))
	}
	return ""
}

func (g *StripeGateway) Session(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, err
	}
	return statusOf(s)
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*SessionStatus, bool, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, false, err
	}
	if event.Type != "checkout.session.completed" {
		return nil, false, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, false, err
	}
	st, err := statusOf(&s)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func statusOf(s *stripe.CheckoutSession) (*SessionStatus, error) {
	orderID, err := strconv.ParseInt(s.Metadata["orderId"], 10, 64)
	if err != nil {
		return nil, ErrMissingMetadata
	}
	userID, err := strconv.ParseInt(s.Metadata["userId"], 10, 64)
	if err != nil {
		return nil, ErrMissingMetadata
	}
	return &SessionStatus{
		SessionID:  s.ID,
		OrderID:    orderID,
		CustomerID: userID,
		Paid:       s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}
