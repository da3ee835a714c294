package events

import (
	"context"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/marketplace/pkg/models"
	"go.uber.org/zap"
)

// Notification is a message for a vendor or customer.
type Notification struct {
	Recipient string
	Type      string // vendor, customer
	Message   string
}

// DeliverFunc hands a notification to the outside world.
type DeliverFunc func(Notification)

// NotificationActor turns order events into notifications.
type NotificationActor struct {
	logger  *zap.Logger
	deliver DeliverFunc
}

func (a *NotificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *models.OrderEvent:
		for _, n := range notificationsFor(msg) {
			a.logger.Info("Sending notification",
				zap.String("recipient", n.Recipient),
				zap.String("type", n.Type),
				zap.String("order_id", msg.OrderID))
			a.deliver(n)
		}

	case *actor.Started:
		a.logger.Info("Notification actor started")

	case *actor.Stopped:
		a.logger.Info("Notification actor stopped")
	}
}

func notificationsFor(ev *models.OrderEvent) []Notification {
	var out []Notification
	switch ev.Type {
	case models.EventCancellationRequested:
		for _, v := range ev.VendorIDs {
			out = append(out, Notification{
				Recipient: v,
				Type:      "vendor",
				Message:   fmt.Sprintf("Cancellation requested for order %s: %s", ev.OrderID, ev.Note),
			})
		}
	case models.EventCancellationApproved:
		out = append(out, Notification{
			Recipient: ev.CustomerID,
			Type:      "customer",
			Message:   fmt.Sprintf("Your order %s has been cancelled", ev.OrderID),
		})
	case models.EventCancellationRejected:
		out = append(out, Notification{
			Recipient: ev.CustomerID,
			Type:      "customer",
			Message:   fmt.Sprintf("Cancellation of your order %s was rejected", ev.OrderID),
		})
	}
	return out
}

// ActorNotifier publishes events to a NotificationActor without blocking
// the caller.
type ActorNotifier struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func NewActorNotifier(logger *zap.Logger, deliver DeliverFunc) (*ActorNotifier, error) {
	if deliver == nil {
		deliver = func(Notification) {}
	}

	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &NotificationActor{logger: logger.Named("notification-actor"), deliver: deliver}
	})
	pid, err := system.Root.SpawnNamed(props, "order-notifier")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	return &ActorNotifier{system: system, pid: pid}, nil
}

func (n *ActorNotifier) Publish(_ context.Context, ev models.OrderEvent) error {
	n.system.Root.Send(n.pid, &ev)
	return nil
}

// Close stops the actor after it has drained queued events.
func (n *ActorNotifier) Close() error {
	return n.system.Root.PoisonFuture(n.pid).Wait()
}
