// Package apperr carries the error taxonomy shared by the store, the checkout core
// and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide how to react without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindPrecondition
	KindConflict
	KindGateway
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	case KindGateway:
		return "gateway"
	default:
		return "internal"
	}
}

// User-facing messages.
const (
	MsgSomethingWentWrong   = "Something went wrong. Please try again."
	MsgCheckoutFailed       = "Checkout failed. Please try again."
	MsgProductNotFound      = "Product not found"
	MsgCartItemNotFound     = "Cart item not found"
	MsgAddressNotFound      = "Address not found"
	MsgOrderNotFound        = "Order not found"
	MsgCategoryNotFound     = "Category not found"
	MsgCategoryExists       = "Category already exists"
	MsgInsufficientStock    = "Insufficient stock"
	MsgCartEmpty            = "Your cart is empty"
	MsgNoAddress            = "No address selected"
	MsgNoPaymentMethod      = "Please select a payment method"
	MsgNoShippingMethod     = "Please select a shipping method"
	MsgNoWrappingOption     = "Please select a wrapping option"
	MsgInvalidTotal         = "Order total is missing"
	MsgNoItems              = "No product selected"
	MsgTotalMismatch        = "Order total does not match current prices"
	MsgOrderAlreadyPaid     = "Order has already been paid"
	MsgOrderExpired         = "Order has expired. Please place it again."
	MsgNotCardOrder         = "Order is not awaiting card payment"
	MsgPaymentNotCompleted  = "Payment has not been completed"
	MsgPaymentSessionNeeded = "Missing payment session"
	MsgSessionMismatch      = "Payment session does not belong to this order"
	MsgLoginRequired        = "Please log in to continue"
	MsgAccessDenied         = "You do not have access to this page"
	MsgInvalidSignature     = "Invalid webhook signature"
)

// Error is the single error type returned by core operations.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports per-field problems. Fields maps the JSON field name to its message.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Invalid input", Fields: fields}
}

// ValidationMsg is a validation failure with a single field.
func ValidationMsg(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: map[string]string{field: msg}}
}

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Precondition(msg string) *Error { return &Error{Kind: KindPrecondition, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// Gateway wraps a payment provider failure. The cause is kept for logs only.
func Gateway(msg string, err error) *Error {
	return &Error{Kind: KindGateway, Message: msg, Err: err}
}

// Internal wraps an unexpected failure (database, encoding, ...).
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Wrap turns any error into an *Error, leaving existing ones untouched.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(MsgSomethingWentWrong, err)
}

// KindOf returns the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to the response status used by the API.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindPrecondition:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
