package chatstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/advisor-assistant/internal/domain/chat"
)

// ValkeyStore keeps each session's log in a Valkey list.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs the store. The list expiry is refreshed on
// every append.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "chat"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Append implements chat.Store.
func (s *ValkeyStore) Append(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	payloads := make([]string, 0, len(turns))
	for _, turn := range turns {
		raw, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		payloads = append(payloads, string(raw))
	}
	key := s.sessionKey(sessionID)
	cmds := []valkey.Completed{
		s.client.B().Rpush().Key(key).Element(payloads...).Build(),
	}
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmds = append(cmds, s.client.B().Expire().Key(key).Seconds(int64(ttl/time.Second)).Build())
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Recent implements chat.Store.
func (s *ValkeyStore) Recent(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	cmd := s.client.B().Lrange().Key(s.sessionKey(sessionID)).Start(start).Stop(-1).Build()
	items, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []chat.Turn{}, nil
		}
		return nil, err
	}
	out := make([]chat.Turn, 0, len(items))
	for _, item := range items {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode chat turn: %w", err)
		}
		out = append(out, turn)
	}
	return out, nil
}

func (s *ValkeyStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

var _ chat.Store = (*ValkeyStore)(nil)
