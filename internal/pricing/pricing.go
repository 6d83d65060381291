// Package pricing computes order totals in integer minor units (paise, cents).
// Conversion from decimal input happens once, at the write boundary, in ToMinorUnits.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Option is a selectable shipping method or gift-wrap choice.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"

	WrapNone    = "none"
	WrapBasic   = "basic"
	WrapPremium = "premium"

	MaxGiftMessageLen = 300
)

var shippingOptions = []Option{
	{ID: ShippingStandard, Name: "Standard Shipping (3-5 days)", Cost: 5000},
	{ID: ShippingExpress, Name: "Express Shipping (1-2 days)", Cost: 10000},
}

var wrapOptions = []Option{
	{ID: WrapNone, Name: "No Wrapping", Cost: 0},
	{ID: WrapBasic, Name: "Basic Wrap", Cost: 2000},
	{ID: WrapPremium, Name: "Premium Wrap with Ribbon", Cost: 5000},
}

// ShippingOptions returns a copy of the shipping table in display order.
func ShippingOptions() []Option { return append([]Option(nil), shippingOptions...) }

// WrapOptions returns a copy of the gift-wrap table in display order.
func WrapOptions() []Option { return append([]Option(nil), wrapOptions...) }

func lookup(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func ShippingOption(id string) (Option, bool) { return lookup(shippingOptions, id) }
func WrapOption(id string) (Option, bool)     { return lookup(wrapOptions, id) }

// ShippingCost is 0 for an unknown id.
func ShippingCost(id string) int64 {
	o, _ := ShippingOption(id)
	return o.Cost
}

// WrapCost is 0 for an unknown id.
func WrapCost(id string) int64 {
	o, _ := WrapOption(id)
	return o.Cost
}

// Line is one priced line: a unit price snapshot and a quantity.
type Line struct {
	UnitPrice int64
	Quantity  int
}

// Breakdown is the result of Calculate. Total = Subtotal + Shipping + Wrap.
type Breakdown struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Wrap     int64 `json:"wrap"`
	Total    int64 `json:"total"`
}

// Calculate sums the lines and adds the selected option costs.
func Calculate(lines []Line, shippingID, wrapID string) Breakdown {
	var b Breakdown
	for _, l := range lines {
		b.Subtotal += l.UnitPrice * int64(l.Quantity)
	}
	b.Shipping = ShippingCost(shippingID)
	b.Wrap = WrapCost(wrapID)
	b.Total = b.Subtotal + b.Shipping + b.Wrap
	return b
}

// UnitPrice picks the discounted price when one is set.
func UnitPrice(base int64, discounted *int64) int64 {
	if discounted != nil {
		return *discounted
	}
	return base
}

// GiftMessage returns the message to store for the given wrap choice.
// Without wrapping there is nothing to attach a message to.
func GiftMessage(wrapID, msg string) (string, error) {
	if wrapID == WrapNone || wrapID == "" {
		return "", nil
	}
	msg = strings.TrimSpace(msg)
	if len([]rune(msg)) > MaxGiftMessageLen {
		return "", fmt.Errorf("gift message must be at most %d characters", MaxGiftMessageLen)
	}
	return msg, nil
}

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrInvalidAmount  = errors.New("amount is not a valid number")
)

// ToMinorUnits converts a major-unit decimal ("49.99") to minor units (4999),
// rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}

// ParseMinorUnits parses a decimal string and converts it with ToMinorUnits.
func ParseMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return ToMinorUnits(d)
}

// FormatMinor renders minor units as a major-unit string with two decimals.
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
