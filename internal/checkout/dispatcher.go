package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/payments"
	"github.com/01moynul/storefront-golang/internal/pricing"
)

// Dispatcher runs checkout and the payment callbacks.
type Dispatcher struct {
	carts     CartRepository
	addresses AddressLookup
	orders    OrderRepository
	gateway   payments.Gateway
	notifier  SellerNotifier
	assembler *Assembler
	appURL    string
	logger    *zap.Logger
}

type Config struct {
	Carts     CartRepository
	Addresses AddressLookup
	Orders    OrderRepository
	Gateway   payments.Gateway
	Notifier  SellerNotifier
	// AppURL is the storefront base URL the gateway sends customers back to.
	AppURL string
	Logger *zap.Logger
}

func NewDispatcher(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		carts:     cfg.Carts,
		addresses: cfg.Addresses,
		orders:    cfg.Orders,
		gateway:   cfg.Gateway,
		notifier:  cfg.Notifier,
		assembler: NewAssembler(cfg.Orders),
		appURL:    cfg.AppURL,
		logger:    logger,
	}
}

// Checkout validates the request, persists the order and either places it (COD)
// or opens a hosted card payment session.
func (d *Dispatcher) Checkout(ctx context.Context, sess models.Session, req Request) (Outcome, error) {
	// 1. --- Preconditions ---
	if err := req.checkPreconditions(); err != nil {
		return nil, err
	}
	if _, err := d.addresses.Get(ctx, sess.UserID, req.AddressID); err != nil {
		return nil, err
	}
	gift, err := pricing.GiftMessage(req.WrappingOption, req.GiftMessage)
	if err != nil {
		return nil, apperr.ValidationMsg("giftMessage", err.Error())
	}

	// 2. --- Items: cart or buy-now ---
	items := req.Items
	fromCart := !req.BuyNow
	if fromCart {
		cart, err := d.carts.List(ctx, sess.UserID)
		if err != nil {
			return nil, err
		}
		if len(cart) == 0 {
			return nil, apperr.Precondition(apperr.MsgCartEmpty)
		}
		items = make([]Item, len(cart))
		for i, ci := range cart {
			items[i] = Item{ProductID: ci.ProductID, Quantity: ci.Quantity}
		}
	}

	// 3. --- Assemble ---
	order, err := d.assembler.Assemble(ctx, Draft{
		CustomerID:     sess.UserID,
		AddressID:      req.AddressID,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
		WrappingOption: req.WrappingOption,
		GiftMessage:    gift,
		ClientTotal:    req.Total,
		FromCart:       fromCart,
		Items:          items,
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", sess.UserID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Int64("total", order.TotalAmount))

	// 4. --- Dispatch ---
	if order.PaymentMethod == models.PaymentCOD {
		d.afterPlacement(ctx, order)
		return Placed{OrderID: order.ID}, nil
	}

	url, err := d.gateway.CreateCheckoutSession(ctx, d.sessionRequest(sess, order))
	if err != nil {
		d.logger.Error("payment session failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return nil, apperr.Gateway(apperr.MsgCheckoutFailed, err)
	}
	return AwaitingGatewayRedirect{OrderID: order.ID, URL: url}, nil
}

// afterPlacement clears the cart (for cart orders) and tells sellers. Both are
// follow-ups to an order that is already committed, so failures are only logged.
func (d *Dispatcher) afterPlacement(ctx context.Context, order *models.Order) {
	if order.FromCart {
		if err := d.carts.Clear(ctx, order.UserID); err != nil {
			d.logger.Error("cart clear failed", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}
	if err := d.notifier.NotifySellers(ctx, order); err != nil {
		d.logger.Error("seller notification failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

// sessionRequest charges exactly the order total: one line per product plus
// shipping and, when it costs anything, gift wrap.
func (d *Dispatcher) sessionRequest(sess models.Session, order *models.Order) payments.SessionRequest {
	lines := make([]payments.LineItem, 0, len(order.Items)+2)
	for _, it := range order.Items {
		lines = append(lines, payments.LineItem{
			Name:       it.ProductName,
			UnitAmount: it.Price,
			Quantity:   int64(it.Quantity),
			ProductID:  it.ProductID,
			Image:      it.ProductImage,
		})
	}
	if order.ShippingCost > 0 {
		opt, _ := pricing.ShippingOption(order.ShippingMethod)
		lines = append(lines, payments.LineItem{Name: opt.Name, UnitAmount: order.ShippingCost, Quantity: 1})
	}
	if order.WrapCost > 0 {
		opt, _ := pricing.WrapOption(order.WrappingOption)
		lines = append(lines, payments.LineItem{Name: "Gift wrap: " + opt.Name, UnitAmount: order.WrapCost, Quantity: 1})
	}

	return payments.SessionRequest{
		OrderID:       order.ID,
		CustomerID:    sess.UserID,
		CustomerName:  sess.Name,
		CustomerEmail: sess.Email,
		Lines:         lines,
		SuccessURL:    fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&orderId=%d", d.appURL, order.ID),
		CancelURL:     fmt.Sprintf("%s/cancel?orderId=%d", d.appURL, order.ID),
		// Stable per order so a retried request cannot open a second session.
		IdempotencyKey: uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s/orders/%d", d.appURL, order.ID))).String(),
	}
}
