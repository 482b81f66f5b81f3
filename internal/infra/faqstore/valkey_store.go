package faqstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
)

const defaultTopLimit = 10

// ValkeyStore keeps trending counters in a Valkey sorted set so they are
// shared across replicas and survive restarts.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// IncrementQuery implements faq.Store. The counter bump and the first-seen
// display string go out in one round trip.
func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	cmds := []valkey.Completed{
		s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build(),
	}
	if display != "" {
		cmds = append(cmds, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build())
	}
	results := s.client.DoMulti(ctx, cmds...)
	if err := results[0].Error(); err != nil {
		return err
	}
	// SET NX answers nil when the display string is already recorded.
	if len(results) > 1 {
		if err := results[1].Error(); err != nil && !valkey.IsValkeyNil(err) {
			return fmt.Errorf("record display for %q: %w", canonical, err)
		}
	}
	return nil
}

// TopQueries implements faq.Store.
func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	cmd := s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit - 1)).Withscores().Build()
	scores, err := s.client.Do(ctx, cmd).AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []faq.TrendingQuery{}, nil
		}
		return nil, err
	}
	if len(scores) == 0 {
		return []faq.TrendingQuery{}, nil
	}

	lookups := make([]valkey.Completed, 0, len(scores))
	for _, z := range scores {
		lookups = append(lookups, s.client.B().Get().Key(s.displayKey(z.Member)).Build())
	}
	displays := s.client.DoMulti(ctx, lookups...)

	out := make([]faq.TrendingQuery, 0, len(scores))
	for i, z := range scores {
		query := z.Member
		if display, err := displays[i].ToString(); err == nil && display != "" {
			query = display
		}
		out = append(out, faq.TrendingQuery{Query: query, Count: int64(z.Score)})
	}
	return out, nil
}

func (s *ValkeyStore) trendingKey() string {
	return fmt.Sprintf("%s:trending", s.prefix)
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return fmt.Sprintf("%s:display:%s", s.prefix, canonical)
}

var _ faq.Store = (*ValkeyStore)(nil)
