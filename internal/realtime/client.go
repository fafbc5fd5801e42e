package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

// SSEClient is one open EventSource. A session may hold several (tabs).
type SSEClient struct {
	ID        uuid.UUID
	SessionID string
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	Logger    *logger.Logger
}
