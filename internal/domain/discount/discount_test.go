package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-core/internal/domain/member"
)

var (
	vip   = member.Member{ID: 1, Name: "memberA", Grade: member.GradeVIP}
	basic = member.Member{ID: 2, Name: "memberB", Grade: member.GradeBasic}
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		member member.Member
		price  int64
		want   int64
	}{
		{
			name:   "fixed VIP gets amount",
			policy: NewFixedPolicy(1000),
			member: vip,
			price:  20000,
			want:   1000,
		},
		{
			name:   "fixed VIP below amount is not capped",
			policy: NewFixedPolicy(1000),
			member: vip,
			price:  500,
			want:   1000,
		},
		{
			name:   "fixed VIP zero price",
			policy: NewFixedPolicy(2000),
			member: vip,
			price:  0,
			want:   2000,
		},
		{
			name:   "fixed BASIC gets nothing",
			policy: NewFixedPolicy(1000),
			member: basic,
			price:  20000,
			want:   0,
		},
		{
			name:   "rate 10% VIP",
			policy: NewRatePolicy(d("10")),
			member: vip,
			price:  20000,
			want:   2000,
		},
		{
			name:   "rate rounds down",
			policy: NewRatePolicy(d("10")),
			member: vip,
			price:  999,
			want:   99,
		},
		{
			name:   "rate fractional percent",
			policy: NewRatePolicy(d("12.5")),
			member: vip,
			price:  10000,
			want:   1250,
		},
		{
			name:   "rate 100% equals price",
			policy: NewRatePolicy(d("100")),
			member: vip,
			price:  4321,
			want:   4321,
		},
		{
			name:   "rate BASIC gets nothing",
			policy: NewRatePolicy(d("10")),
			member: basic,
			price:  20000,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Discount(tt.member, tt.price))
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		fixed       int64
		percent     decimal.Decimal
		want        Policy
		wantErrText string
	}{
		{
			name:  "fixed",
			kind:  KindFixed,
			fixed: 1000,
			want:  FixedPolicy{Amount: 1000},
		},
		{
			name:        "fixed negative",
			kind:        KindFixed,
			fixed:       -1,
			wantErrText: "must not be negative",
		},
		{
			name:    "rate",
			kind:    KindRate,
			percent: d("15"),
			want:    RatePolicy{Percent: d("15")},
		},
		{
			name:        "rate above 100",
			kind:        KindRate,
			percent:     d("100.01"),
			wantErrText: "within [0, 100]",
		},
		{
			name:        "rate negative",
			kind:        KindRate,
			percent:     d("-5"),
			wantErrText: "within [0, 100]",
		},
		{
			name:        "unknown kind",
			kind:        Kind("bogus"),
			wantErrText: "unsupported discount kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.kind, tt.fixed, tt.percent)
			if tt.wantErrText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Discount(vip, 20000), got.Discount(vip, 20000))
			assert.IsType(t, tt.want, got)
		})
	}
}
