package order

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/xenking/order-core/internal/domain/order"

var _ Creator = (*Instrumented)(nil)

// Instrumented wraps a Creator with a span per call and order counters.
type Instrumented struct {
	next    Creator
	tracer  trace.Tracer
	created metric.Int64Counter
	savings metric.Int64Counter
}

// NewInstrumented wraps next using the given providers.
func NewInstrumented(next Creator, tp trace.TracerProvider, mp metric.MeterProvider) (*Instrumented, error) {
	meter := mp.Meter(instrumentationName)

	created, err := meter.Int64Counter("orders.created",
		metric.WithDescription("Number of orders created"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create orders.created counter")
	}
	savings, err := meter.Int64Counter("orders.discount",
		metric.WithDescription("Total discount granted on created orders"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create orders.discount counter")
	}

	return &Instrumented{
		next:    next,
		tracer:  tp.Tracer(instrumentationName),
		created: created,
		savings: savings,
	}, nil
}

// CreateOrder implements Creator.
func (i *Instrumented) CreateOrder(ctx context.Context, memberID int64, itemName string, itemPrice int64) (*Order, error) {
	ctx, span := i.tracer.Start(ctx, "CreateOrder",
		trace.WithAttributes(
			attribute.Int64("member.id", memberID),
			attribute.String("item.name", itemName),
			attribute.Int64("item.price", itemPrice),
		),
	)
	defer span.End()

	o, err := i.next.CreateOrder(ctx, memberID, itemName, itemPrice)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", o.ID),
		attribute.Int64("order.discount", o.DiscountPrice),
	)
	discounted := attribute.Bool("discounted", o.DiscountPrice > 0)
	i.created.Add(ctx, 1, metric.WithAttributes(discounted))
	i.savings.Add(ctx, o.DiscountPrice, metric.WithAttributes(discounted))

	return o, nil
}
