package chat

import "context"

// Store is an append-only log of turns per session.
type Store interface {
	Append(ctx context.Context, sessionID string, turns ...Turn) error
	Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}
