package member

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no member is stored under the requested id.
var ErrNotFound = errors.New("member not found")

// Grade is the membership tier that determines discount eligibility.
type Grade uint8

const (
	// GradeBasic members pay the full item price.
	GradeBasic Grade = iota
	// GradeVIP members are eligible for discounts.
	GradeVIP
)

// String returns the canonical textual form of the grade.
func (g Grade) String() string {
	switch g {
	case GradeBasic:
		return "BASIC"
	case GradeVIP:
		return "VIP"
	default:
		return fmt.Sprintf("Grade(%d)", uint8(g))
	}
}

// ParseGrade parses a textual grade, case-insensitively.
func ParseGrade(s string) (Grade, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BASIC":
		return GradeBasic, nil
	case "VIP":
		return GradeVIP, nil
	default:
		return 0, errors.Errorf("unknown grade %q", s)
	}
}

// Member is a registered customer.
type Member struct {
	ID    int64
	Name  string
	Grade Grade
}

// NotFoundError reports the id that had no stored member. It matches
// ErrNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("member %d not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Repository stores members keyed by id.
type Repository interface {
	// Save stores m, replacing any member with the same id.
	Save(ctx context.Context, m Member) error
	// FindByID returns the member stored under id or a *NotFoundError.
	FindByID(ctx context.Context, id int64) (Member, error)
}
