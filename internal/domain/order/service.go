package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/order-core/internal/domain/discount"
	"github.com/xenking/order-core/internal/domain/member"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItemName = errors.New("item name required")
	ErrInvalidPrice  = errors.New("item price must not be negative")
)

// MemberFinder resolves members by id.
type MemberFinder interface {
	FindMember(ctx context.Context, id int64) (member.Member, error)
}

// Creator creates priced orders.
type Creator interface {
	CreateOrder(ctx context.Context, memberID int64, itemName string, itemPrice int64) (*Order, error)
}

var _ Creator = (*Service)(nil)

// Service encapsulates order pricing business logic.
type Service struct {
	members MemberFinder
	policy  discount.Policy
	newID   func() string
}

// NewService creates an order Service with the required domain dependencies.
func NewService(members MemberFinder, policy discount.Policy) *Service {
	return &Service{
		members: members,
		policy:  policy,
		newID:   func() string { return uuid.New().String() },
	}
}

// CreateOrder resolves the member, asks the discount policy for the discount
// on itemPrice, and returns the priced order. The error matches
// member.ErrNotFound when memberID was never joined.
func (s *Service) CreateOrder(ctx context.Context, memberID int64, itemName string, itemPrice int64) (*Order, error) {
	if itemName == "" {
		return nil, ErrEmptyItemName
	}
	if itemPrice < 0 {
		return nil, ErrInvalidPrice
	}

	m, err := s.members.FindMember(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "find member")
	}

	o := &Order{
		ID:            s.newID(),
		MemberID:      memberID,
		ItemName:      itemName,
		ItemPrice:     itemPrice,
		DiscountPrice: s.policy.Discount(m, itemPrice),
	}

	zctx.From(ctx).Debug("Order created",
		zap.String("order_id", o.ID),
		zap.Int64("member_id", o.MemberID),
		zap.Int64("item_price", o.ItemPrice),
		zap.Int64("discount_price", o.DiscountPrice),
	)

	return o, nil
}
