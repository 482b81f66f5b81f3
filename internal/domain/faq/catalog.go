package faq

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/yanqian/advisor-assistant/pkg/util"
)

// ReloadResult describes the corpus a catalog switched to.
type ReloadResult struct {
	Source   string    `json:"source"`
	Entries  int       `json:"entries"`
	Fallback bool      `json:"fallback"`
	LoadedAt time.Time `json:"loadedAt"`
}

type snapshot struct {
	corpus Corpus
	info   ReloadResult
}

// Catalog holds the live corpus. Readers get an immutable snapshot; reloads
// build a new corpus and swap it in atomically.
type Catalog struct {
	source  Source
	logger  *slog.Logger
	now     util.Clock
	current atomic.Pointer[snapshot]
}

// NewCatalog starts with the built-in corpus until the first Reload.
func NewCatalog(source Source, logger *slog.Logger) *Catalog {
	c := &Catalog{
		source: source,
		logger: logger.With("component", "faq.catalog"),
		now:    util.NowUTC,
	}
	c.store(DefaultCorpus(), "builtin", true)
	return c
}

// Snapshot returns the current corpus. Callers must not modify it.
func (c *Catalog) Snapshot() Corpus {
	return c.current.Load().corpus
}

// Info describes the current corpus.
func (c *Catalog) Info() ReloadResult {
	return c.current.Load().info
}

// Reload rebuilds the corpus from the configured source, falling back to the
// built-in entries when the source is unusable.
func (c *Catalog) Reload(ctx context.Context) ReloadResult {
	corpus, fallback := loadOrDefault(ctx, c.source, c.logger)
	result := c.store(corpus, sourceName(c.source), fallback)
	if !fallback {
		c.logger.Info("faq corpus loaded", "source", result.Source, "entries", result.Entries)
	}
	return result
}

// Replace swaps in an already built corpus, e.g. from an upload.
func (c *Catalog) Replace(corpus Corpus, origin string) ReloadResult {
	if corpus.Len() == 0 {
		return c.store(DefaultCorpus(), origin, true)
	}
	return c.store(corpus, origin, false)
}

func (c *Catalog) store(corpus Corpus, origin string, fallback bool) ReloadResult {
	info := ReloadResult{
		Source:   origin,
		Entries:  corpus.Len(),
		Fallback: fallback,
		LoadedAt: c.now(),
	}
	c.current.Store(&snapshot{corpus: corpus, info: info})
	return info
}
