// Package checkout turns a cart (or a buy-now selection) into an order and routes it
// to cash-on-delivery or hosted card payment.
package checkout

import (
	"context"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/pricing"
	"github.com/01moynul/storefront-golang/internal/store"
)

type CartRepository interface {
	List(ctx context.Context, userID int64) ([]models.CartItem, error)
	Clear(ctx context.Context, userID int64) error
}

type AddressLookup interface {
	Get(ctx context.Context, userID, addressID int64) (*models.Address, error)
}

type OrderRepository interface {
	Atomically(ctx context.Context, fn func(tx store.OrderTx) error) error
	Get(ctx context.Context, orderID int64) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID int64) (bool, error)
	DeleteUnpaid(ctx context.Context, orderID int64) error
}

type SellerNotifier interface {
	NotifySellers(ctx context.Context, order *models.Order) error
}

// Item is one requested product and quantity.
type Item struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Request is a checkout attempt. Total is the amount the customer saw, in minor units.
type Request struct {
	AddressID      int64                `json:"addressId"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod"`
	ShippingMethod string               `json:"shippingMethod"`
	WrappingOption string               `json:"wrappingOption"`
	GiftMessage    string               `json:"giftMessage"`
	Total          int64                `json:"total"`
	BuyNow         bool                 `json:"buyNow"`
	Items          []Item               `json:"items"`
}

// checkPreconditions runs before anything is read or written.
// Buy-now quantities of zero default to one.
func (r *Request) checkPreconditions() error {
	if r.Total <= 0 {
		return apperr.Precondition(apperr.MsgInvalidTotal)
	}
	if r.AddressID == 0 {
		return apperr.Precondition(apperr.MsgNoAddress)
	}
	if !r.PaymentMethod.Valid() {
		return apperr.Precondition(apperr.MsgNoPaymentMethod)
	}
	if _, ok := pricing.ShippingOption(r.ShippingMethod); !ok {
		return apperr.Precondition(apperr.MsgNoShippingMethod)
	}
	if _, ok := pricing.WrapOption(r.WrappingOption); !ok {
		return apperr.Precondition(apperr.MsgNoWrappingOption)
	}
	if !r.BuyNow {
		return nil
	}

	if len(r.Items) == 0 {
		return apperr.Precondition(apperr.MsgNoItems)
	}
	for i := range r.Items {
		if r.Items[i].ProductID == 0 {
			return apperr.Precondition(apperr.MsgNoItems)
		}
		if r.Items[i].Quantity == 0 {
			r.Items[i].Quantity = 1
		}
		if r.Items[i].Quantity < 0 {
			return apperr.ValidationMsg("quantity", "Quantity must be at least 1")
		}
	}
	return nil
}

// Outcome is either Placed or AwaitingGatewayRedirect.
type Outcome interface {
	isOutcome()
}

// Placed means the order is final (cash on delivery).
type Placed struct {
	OrderID int64
}

// AwaitingGatewayRedirect means the customer must pay on the hosted page at URL.
type AwaitingGatewayRedirect struct {
	OrderID int64
	URL     string
}

func (Placed) isOutcome()                  {}
func (AwaitingGatewayRedirect) isOutcome() {}
