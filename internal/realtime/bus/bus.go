package bus

import (
	"context"

	"github.com/daftaros/daftar-backend/internal/realtime"
)

// Bus fans SSE messages out across processes. A single-process deployment can
// skip it and emit straight into the hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
