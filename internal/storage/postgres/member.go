package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/order-core/internal/domain/member"
)

const (
	saveMemberSQL = `INSERT INTO members (id, name, grade) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, grade = EXCLUDED.grade, updated_at = NOW()`

	getMemberByIDSQL = `SELECT id, name, grade FROM members WHERE id = $1`
)

var _ member.Repository = (*MemberRepository)(nil)

// MemberRepository implements member.Repository backed by PostgreSQL.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a MemberRepository that uses the given pool.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Save upserts m by id.
func (r *MemberRepository) Save(ctx context.Context, m member.Member) error {
	_, err := r.pool.Exec(ctx, saveMemberSQL, m.ID, m.Name, m.Grade.String())
	if err != nil {
		return fmt.Errorf("saving member %d: %w", m.ID, err)
	}
	return nil
}

// FindByID returns the member stored under id.
// Returns a *member.NotFoundError when no row matches.
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (member.Member, error) {
	rows, err := r.pool.Query(ctx, getMemberByIDSQL, id)
	if err != nil {
		return member.Member{}, fmt.Errorf("getting member %d: %w", id, err)
	}

	m, err := pgx.CollectExactlyOneRow(rows, scanMember)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member.Member{}, &member.NotFoundError{ID: id}
		}
		return member.Member{}, fmt.Errorf("getting member %d: %w", id, err)
	}
	return m, nil
}

func scanMember(row pgx.CollectableRow) (member.Member, error) {
	var (
		m     member.Member
		grade string
	)
	if err := row.Scan(&m.ID, &m.Name, &grade); err != nil {
		return m, err
	}
	g, err := member.ParseGrade(grade)
	if err != nil {
		return m, errors.Wrapf(err, "member %d", m.ID)
	}
	m.Grade = g
	return m, nil
}
