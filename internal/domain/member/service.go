package member

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Service joins members and looks them up.
type Service struct {
	members Repository
}

// NewService creates a member Service backed by the given Repository.
func NewService(members Repository) *Service {
	return &Service{members: members}
}

// Join stores m. Joining an id that already exists replaces the stored member.
func (s *Service) Join(ctx context.Context, m Member) error {
	if err := s.members.Save(ctx, m); err != nil {
		return errors.Wrapf(err, "save member %d", m.ID)
	}
	zctx.From(ctx).Debug("Member joined",
		zap.Int64("member_id", m.ID),
		zap.Stringer("grade", m.Grade),
	)
	return nil
}

// FindMember returns the member stored under id. The error matches
// ErrNotFound when no such member exists.
func (s *Service) FindMember(ctx context.Context, id int64) (Member, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return Member{}, err
	}
	return m, nil
}
