package checkout

import (
	"context"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/pricing"
	"github.com/01moynul/storefront-golang/internal/store"
)

// Draft is a checked request with its items resolved from the cart or buy-now selection.
type Draft struct {
	CustomerID     int64
	AddressID      int64
	PaymentMethod  models.PaymentMethod
	ShippingMethod string
	WrappingOption string
	GiftMessage    string
	ClientTotal    int64
	FromCart       bool
	Items          []Item
}

// Assembler persists an order and its lines in one transaction.
type Assembler struct {
	orders OrderRepository
}

func NewAssembler(orders OrderRepository) *Assembler {
	return &Assembler{orders: orders}
}

// mergeItems folds repeated products into one line, keeping first-seen order.
func mergeItems(items []Item) []Item {
	idx := make(map[int64]int, len(items))
	merged := make([]Item, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

// Assemble resolves every product, snapshots its current price and seller, checks the
// total against the customer's, reserves stock and writes the order. Any failure
// leaves nothing behind.
func (a *Assembler) Assemble(ctx context.Context, d Draft) (*models.Order, error) {
	lines := mergeItems(d.Items)
	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	var order *models.Order
	err := a.orders.Atomically(ctx, func(tx store.OrderTx) error {
		// 1. --- Resolve products ---
		products, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		priced := make([]pricing.Line, 0, len(lines))
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok || !p.IsPublished {
				return apperr.NotFound(apperr.MsgProductNotFound)
			}
			items = append(items, models.OrderItem{
				ProductID:    p.ID,
				SellerID:     p.SellerID,
				Quantity:     l.Quantity,
				Price:        p.UnitPrice(),
				ProductName:  p.Name,
				ProductImage: p.FirstImage(),
			})
			priced = append(priced, pricing.Line{UnitPrice: p.UnitPrice(), Quantity: l.Quantity})
		}

		// 2. --- Recompute the total ---
		b := pricing.Calculate(priced, d.ShippingMethod, d.WrappingOption)
		if b.Total != d.ClientTotal {
			return apperr.ValidationMsg("total", apperr.MsgTotalMismatch)
		}

		// 3. --- Reserve stock ---
		for _, it := range items {
			ok, err := tx.ReserveStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict(apperr.MsgInsufficientStock + " for " + it.ProductName)
			}
		}

		// 4. --- Write order and lines ---
		o := &models.Order{
			UserID:         d.CustomerID,
			AddressID:      d.AddressID,
			PaymentMethod:  d.PaymentMethod,
			ShippingMethod: d.ShippingMethod,
			WrappingOption: d.WrappingOption,
			GiftMessage:    d.GiftMessage,
			Subtotal:       b.Subtotal,
			ShippingCost:   b.Shipping,
			WrapCost:       b.Wrap,
			TotalAmount:    b.Total,
			DeliveryStatus: models.DeliveryPending,
			FromCart:       d.FromCart,
		}
		if _, err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(ctx, o.ID, items); err != nil {
			return err
		}
		o.Items = items
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
