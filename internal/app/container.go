package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/order-core/internal/domain/member"
	"github.com/xenking/order-core/internal/domain/order"
	"github.com/xenking/order-core/internal/storage/memory"
	"github.com/xenking/order-core/internal/storage/postgres"
)

// MemberService joins members and looks them up.
type MemberService interface {
	Join(ctx context.Context, m member.Member) error
	FindMember(ctx context.Context, id int64) (member.Member, error)
}

// OrderService creates priced orders.
type OrderService = order.Creator

// Store is an opened member storage backend.
type Store struct {
	Members member.Repository
	close   func()
}

// Close releases the backend's resources.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore opens the member store described by cfg. The postgres store is
// migrated before it is returned.
func OpenStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	switch cfg.Kind {
	case StoreMemory:
		return &Store{Members: memory.NewMemberRepository()}, nil
	case StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "run migrations")
		}
		return &Store{
			Members: postgres.NewMemberRepository(pool),
			close:   pool.Close,
		}, nil
	default:
		return nil, errors.Errorf("unsupported store kind: %q", cfg.Kind)
	}
}

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Container.
type Option func(*options)

// WithTelemetry instruments the order service with the given providers.
func WithTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
		o.meterProvider = mp
	}
}

// Container is the composition root. It builds every service once, so
// repeated accessor calls return the same instances sharing one store.
type Container struct {
	store   *Store
	members *member.Service
	orders  OrderService
}

// NewContainer opens the configured store and wires the member and order
// services on top of it.
func NewContainer(ctx context.Context, cfg *Config, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := cfg.Discount.Policy()
	if err != nil {
		return nil, errors.Wrap(err, "discount policy")
	}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}

	members := member.NewService(store.Members)

	var orders OrderService = order.NewService(members, policy)
	if o.tracerProvider != nil && o.meterProvider != nil {
		inst, err := order.NewInstrumented(orders, o.tracerProvider, o.meterProvider)
		if err != nil {
			store.Close()
			return nil, errors.Wrap(err, "instrument order service")
		}
		orders = inst
	}

	zctx.From(ctx).Info("Services wired",
		zap.String("store", cfg.Store.Kind),
		zap.String("discount", cfg.Discount.Kind),
	)

	return &Container{
		store:   store,
		members: members,
		orders:  orders,
	}, nil
}

// MemberService returns the member service.
func (c *Container) MemberService() MemberService {
	return c.members
}

// OrderService returns the order service.
func (c *Container) OrderService() OrderService {
	return c.orders
}

// Close releases the store.
func (c *Container) Close() {
	c.store.Close()
}
