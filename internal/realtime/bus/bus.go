package bus

import (
	"context"

	"github.com/yungbote/lovepattern-backend/internal/realtime"
)

// Bus fans session events out to every replica, so an SSE client attached to
// one instance sees analyses finished by another.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
