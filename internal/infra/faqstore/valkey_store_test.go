package faqstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/alicebob/miniredis/v2/server"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
)

func newTestValkey(t *testing.T) (*miniredis.Miniredis, valkey.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
		ClientSetInfo:     valkey.DisableClientSetInfo,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return mr, client
}

func TestValkeyStoreTopQueries(t *testing.T) {
	ctx := context.Background()
	_, client := newTestValkey(t)
	store := NewValkeyStore(client, "test")

	require.NoError(t, store.IncrementQuery(ctx, "when can i register", "When can I register?"))
	require.NoError(t, store.IncrementQuery(ctx, "when can i register", "when can i REGISTER"))
	require.NoError(t, store.IncrementQuery(ctx, "advising hold", ""))

	top, err := store.TopQueries(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{
		{Query: "When can I register?", Count: 2},
		{Query: "advising hold", Count: 1},
	}, top)
}

func TestValkeyStoreReportsDisplayWriteFailure(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestValkey(t)
	store := NewValkeyStore(client, "test")

	mr.Server().SetPreHook(func(peer *server.Peer, cmd string, _ ...string) bool {
		if cmd == "SET" {
			peer.WriteError("ERR display writes disabled")
			return true
		}
		return false
	})

	err := store.IncrementQuery(ctx, "advising hold", "Advising hold")
	require.ErrorContains(t, err, "display writes disabled")

	score, zerr := mr.ZScore("test:trending", "advising hold")
	require.NoError(t, zerr)
	require.Equal(t, 1.0, score)
}
