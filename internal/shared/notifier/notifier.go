package notifier

import (
	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Notifier delivers a fire-and-forget message to a user. Implementations
// must never block the caller: bid and order transactions finish first,
// delivery happens on a best-effort basis afterwards.
type Notifier interface {
	Notify(userID uuid.UUID, message string)
}

// LogNotifier writes notifications to the application log. Useful as the
// default when no realtime channel is configured, and in tests.
type LogNotifier struct{}

func (LogNotifier) Notify(userID uuid.UUID, message string) {
	log.Info("notification",
		zap.String("userID", userID.String()),
		zap.String("message", message),
	)
}

// Fanout delivers every notification to all wrapped notifiers.
type Fanout []Notifier

func (f Fanout) Notify(userID uuid.UUID, message string) {
	for _, n := range f {
		n.Notify(userID, message)
	}
}
