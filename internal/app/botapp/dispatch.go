package botapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/guildbot/internal/domain/enums"
)

// guard is the single place handler failures end up. Every event gets an id for
// log correlation; errors and panics are logged and never reach the gateway loop.
func guard[T any](logger *zap.Logger, eventType enums.EventType, handler func(context.Context, T) error) func(context.Context, T) {
	return func(ctx context.Context, event T) {
		log := logger.With(
			zap.String("event", string(eventType)),
			zap.String("event_id", uuid.NewString()),
		)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				log.Error("event handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			}
		}()

		if err := handler(ctx, event); err != nil {
			log.Error("event handler failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}

		log.Debug("event handled", zap.Duration("duration", time.Since(start)))
	}
}
