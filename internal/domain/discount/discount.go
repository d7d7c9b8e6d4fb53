// Package discount computes member discounts for an item price.
package discount

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-core/internal/domain/member"
)

// Kind enumerates the supported discount strategies.
type Kind string

const (
	// KindFixed grants a constant amount to VIP members.
	KindFixed Kind = "fixed"
	// KindRate grants a percentage of the price to VIP members.
	KindRate Kind = "rate"
)

var hundred = decimal.NewFromInt(100)

// Policy computes the discount amount for a member buying at price.
type Policy interface {
	Discount(m member.Member, price int64) int64
}

// FixedPolicy grants Amount to VIP members regardless of price.
type FixedPolicy struct {
	Amount int64
}

// NewFixedPolicy returns a FixedPolicy granting amount.
func NewFixedPolicy(amount int64) FixedPolicy {
	return FixedPolicy{Amount: amount}
}

// Discount implements Policy.
func (p FixedPolicy) Discount(m member.Member, _ int64) int64 {
	if m.Grade != member.GradeVIP {
		return 0
	}
	return p.Amount
}

// RatePolicy grants Percent percent of the price to VIP members, rounded
// down to a whole amount.
type RatePolicy struct {
	Percent decimal.Decimal
}

// NewRatePolicy returns a RatePolicy granting percent of the price.
func NewRatePolicy(percent decimal.Decimal) RatePolicy {
	return RatePolicy{Percent: percent}
}

// Discount implements Policy.
func (p RatePolicy) Discount(m member.Member, price int64) int64 {
	if m.Grade != member.GradeVIP {
		return 0
	}
	amount := decimal.NewFromInt(price).Mul(p.Percent).Div(hundred).Floor()
	return floorAtZero(amount).IntPart()
}

// New builds the Policy of the given kind. fixedAmount parameterises
// KindFixed and percent parameterises KindRate.
func New(kind Kind, fixedAmount int64, percent decimal.Decimal) (Policy, error) {
	switch kind {
	case KindFixed:
		if fixedAmount < 0 {
			return nil, errors.Errorf("fixed amount must not be negative, got %d", fixedAmount)
		}
		return NewFixedPolicy(fixedAmount), nil
	case KindRate:
		if percent.IsNegative() || percent.GreaterThan(hundred) {
			return nil, errors.Errorf("rate must be within [0, 100], got %s", percent)
		}
		return NewRatePolicy(percent), nil
	default:
		return nil, errors.Errorf("unsupported discount kind: %q", kind)
	}
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
