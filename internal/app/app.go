package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/order-core/internal/domain/member"
)

// Run wires the services and performs the demo order described by
// cfg.Demo, printing the result to stdout.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("store", cfg.Store.Kind),
		zap.String("discount", cfg.Discount.Kind),
	)

	c, err := NewContainer(ctx, cfg, WithTelemetry(m.TracerProvider(), m.MeterProvider()))
	if err != nil {
		return errors.Wrap(err, "create container")
	}
	defer c.Close()

	return RunDemo(ctx, c, cfg.Demo, os.Stdout)
}

// RunDemo joins the demo member, orders the demo item and writes the
// calculated price (or the whole order as JSON) to w.
func RunDemo(ctx context.Context, c *Container, demo DemoConfig, w io.Writer) error {
	grade, err := member.ParseGrade(demo.Grade)
	if err != nil {
		return errors.Wrap(err, "demo grade")
	}

	mem := member.Member{ID: demo.MemberID, Name: demo.MemberName, Grade: grade}
	if err := c.MemberService().Join(ctx, mem); err != nil {
		return errors.Wrap(err, "join member")
	}

	o, err := c.OrderService().CreateOrder(ctx, demo.MemberID, demo.ItemName, demo.ItemPrice)
	if err != nil {
		return errors.Wrap(err, "create order")
	}

	switch demo.Output {
	case OutputJSON:
		var e jx.Encoder
		o.Encode(&e)
		if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
			return errors.Wrap(err, "write order")
		}
	default:
		if _, err := fmt.Fprintln(w, o.CalculatePrice()); err != nil {
			return errors.Wrap(err, "write price")
		}
	}
	return nil
}
