package events

import (
	"context"
	"errors"

	"github.com/example/marketplace/pkg/models"
)

// Sink receives order lifecycle events.
type Sink interface {
	Publish(ctx context.Context, ev models.OrderEvent) error
}

// Multi publishes every event to all sinks and joins their errors.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, ev models.OrderEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, models.OrderEvent) error { return nil }
