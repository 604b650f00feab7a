package notify

import (
	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type deliver struct {
	userID string
	note   Notification
}

type recent struct {
	userID string
}

type feed struct {
	notes []Notification
}

// feedActor owns every user's feed; the mailbox serialises access.
type feedActor struct {
	logger *zap.Logger
	keep   int
	feeds  map[string][]Notification
}

func (a *feedActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.feeds = make(map[string][]Notification)
		a.logger.Info("Notification actor started")

	case *deliver:
		notes := append([]Notification{msg.note}, a.feeds[msg.userID]...)
		if len(notes) > a.keep {
			notes = notes[:a.keep]
		}
		a.feeds[msg.userID] = notes
		a.logger.Info("Sending notification",
			zap.String("recipient", msg.userID),
			zap.String("type", msg.note.Kind),
			zap.String("entity_id", msg.note.EntityID))

	case *recent:
		notes := make([]Notification, len(a.feeds[msg.userID]))
		copy(notes, a.feeds[msg.userID])
		ctx.Respond(&feed{notes: notes})

	case *actor.Stopped:
		a.logger.Info("Notification actor stopped")
	}
}
