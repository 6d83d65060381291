package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

// ownedOrder loads an order of customerID. Other customers' orders look missing.
func (d *Dispatcher) ownedOrder(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	order, err := d.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != customerID {
		return nil, apperr.NotFound(apperr.MsgOrderNotFound)
	}
	return order, nil
}

// ConfirmPayment is the success callback for a card order. It is safe to repeat:
// an order that is already paid is returned unchanged.
func (d *Dispatcher) ConfirmPayment(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	// 1. --- Load and check ---
	order, err := d.ownedOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentCard {
		return nil, apperr.Precondition(apperr.MsgNotCardOrder)
	}
	if order.IsPaid {
		return order, nil
	}
	if order.DeliveryStatus == models.DeliveryExpired {
		return nil, apperr.Conflict(apperr.MsgOrderExpired)
	}

	// 2. --- Flip is_paid ---
	changed, err := d.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Another callback got there first, or the sweeper expired it in between.
		order, err := d.orders.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.IsPaid {
			return nil, apperr.Conflict(apperr.MsgOrderExpired)
		}
		return order, nil
	}
	order.IsPaid = true

	// 3. --- Follow-ups ---
	d.logger.Info("order paid", zap.Int64("order_id", orderID), zap.Int64("user_id", customerID))
	d.afterPlacement(ctx, order)
	return order, nil
}

// ConfirmSession handles the customer returning from the hosted payment page. The
// session is checked with the gateway before the order is marked paid.
func (d *Dispatcher) ConfirmSession(ctx context.Context, customerID, orderID int64, sessionID string) (*models.Order, error) {
	if sessionID == "" {
		return nil, apperr.Precondition(apperr.MsgPaymentSessionNeeded)
	}
	st, err := d.gateway.Session(ctx, sessionID)
	if err != nil {
		d.logger.Error("payment session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, apperr.Gateway(apperr.MsgSomethingWentWrong, err)
	}
	if st.OrderID != orderID || st.CustomerID != customerID {
		return nil, apperr.Precondition(apperr.MsgSessionMismatch)
	}
	if !st.Paid {
		return nil, apperr.Precondition(apperr.MsgPaymentNotCompleted)
	}
	return d.ConfirmPayment(ctx, customerID, orderID)
}

// ConfirmWebhook handles a signed gateway notification. Events that can never succeed
// on retry (missing or expired order) are logged and acknowledged.
func (d *Dispatcher) ConfirmWebhook(ctx context.Context, payload []byte, signature string) error {
	st, handled, err := d.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return apperr.ValidationMsg("signature", apperr.MsgInvalidSignature)
	}
	if !handled || !st.Paid {
		return nil
	}

	_, err = d.ConfirmPayment(ctx, st.CustomerID, st.OrderID)
	switch apperr.KindOf(err) {
	case apperr.KindNotFound, apperr.KindConflict, apperr.KindPrecondition:
		d.logger.Error("paid session for unusable order",
			zap.Int64("order_id", st.OrderID), zap.String("session_id", st.SessionID), zap.Error(err))
		return nil
	}
	return err
}

// CancelPayment is the cancel callback: the unpaid card order is deleted and its stock
// released. Reloading the cancel page is harmless. A COD order is final once placed.
func (d *Dispatcher) CancelPayment(ctx context.Context, customerID, orderID int64) error {
	order, err := d.orders.Get(ctx, orderID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if order.UserID != customerID {
		return apperr.NotFound(apperr.MsgOrderNotFound)
	}
	if order.PaymentMethod != models.PaymentCard {
		return apperr.Precondition(apperr.MsgNotCardOrder)
	}
	if order.IsPaid {
		return apperr.Precondition(apperr.MsgOrderAlreadyPaid)
	}

	if err := d.orders.DeleteUnpaid(ctx, orderID); err != nil {
		return err
	}
	d.logger.Info("unpaid order cancelled", zap.Int64("order_id", orderID), zap.Int64("user_id", customerID))
	return nil
}
