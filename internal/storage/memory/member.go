// Package memory provides process-lifetime, in-memory storage.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/order-core/internal/domain/member"
)

var _ member.Repository = (*MemberRepository)(nil)

// MemberRepository implements member.Repository with a mutex-guarded map.
// It is safe for concurrent use.
type MemberRepository struct {
	mu sync.RWMutex
	m  map[int64]member.Member
}

// NewMemberRepository returns an empty MemberRepository.
func NewMemberRepository() *MemberRepository {
	return &MemberRepository{m: make(map[int64]member.Member)}
}

// Save stores m, replacing any member with the same id. It never fails.
func (r *MemberRepository) Save(_ context.Context, m member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[m.ID] = m
	return nil
}

// FindByID returns the member stored under id or a *member.NotFoundError.
func (r *MemberRepository) FindByID(_ context.Context, id int64) (member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.m[id]
	if !ok {
		return member.Member{}, &member.NotFoundError{ID: id}
	}
	return m, nil
}

// Len returns the number of stored members.
func (r *MemberRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
