// Package notify delivers marketplace events to per-user notification feeds
// held by an actor.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/agbado/pkg/marketplace"
	"go.uber.org/zap"
)

const (
	defaultKeep    = 20
	requestTimeout = 5 * time.Second
)

type Notification struct {
	Kind     string    `json:"kind"`
	EntityID string    `json:"entityId"`
	Message  string    `json:"message"`
	Amount   int       `json:"amount"`
	At       time.Time `json:"at"`
}

// Notifier satisfies marketplace.Notifier. Notify never blocks the caller.
type Notifier struct {
	system *actor.ActorSystem
	pid    *actor.PID
	logger *zap.Logger
}

// NewNotifier spawns the feed actor. keep bounds each user's feed; zero
// means the default of 20.
func NewNotifier(logger *zap.Logger, keep int) (*Notifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keep <= 0 {
		keep = defaultKeep
	}
	logger = logger.Named("notifier")

	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &feedActor{logger: logger, keep: keep}
	})
	pid, err := system.Root.SpawnNamed(props, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	return &Notifier{system: system, pid: pid, logger: logger}, nil
}

func (n *Notifier) Notify(_ context.Context, ev marketplace.Event) {
	n.system.Root.Send(n.pid, &deliver{userID: ev.UserID, note: render(ev)})
}

// Recent returns the user's feed, newest first.
func (n *Notifier) Recent(ctx context.Context, userID string) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := requestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	res, err := n.system.Root.RequestFuture(n.pid, &recent{userID: userID}, timeout).Result()
	if err != nil {
		return nil, fmt.Errorf("notification feed: %w", err)
	}
	feed, ok := res.(*feed)
	if !ok {
		return nil, fmt.Errorf("notification feed: unexpected reply %T", res)
	}
	return feed.notes, nil
}

// Close stops the actor after it drains its mailbox.
func (n *Notifier) Close() {
	if err := n.system.Root.PoisonFuture(n.pid).Wait(); err != nil {
		n.logger.Warn("Notification actor did not stop cleanly", zap.Error(err))
	}
}

func render(ev marketplace.Event) Notification {
	note := Notification{
		Kind:     string(ev.Kind),
		EntityID: ev.EntityID,
		Amount:   ev.Amount,
		At:       ev.At,
	}
	switch ev.Kind {
	case marketplace.EventOrderPlaced:
		note.Message = fmt.Sprintf("Order placed successfully. Total: ₦%d", ev.Amount)
	case marketplace.EventBookingCreated:
		note.Message = "Booking request sent. The provider will contact you shortly."
	case marketplace.EventUserRegistered:
		note.Message = "Welcome to the marketplace!"
	default:
		note.Message = string(ev.Kind)
	}
	return note
}
