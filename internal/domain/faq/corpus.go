package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Corpus is the ordered set of entries available for matching. A corpus is
// replaced wholesale on reload and never patched in place.
type Corpus []Entry

// Len reports the number of entries.
func (c Corpus) Len() int {
	return len(c)
}

// Source produces the raw corpus table, e.g. from a CSV file or a database.
type Source interface {
	Name() string
	Load(ctx context.Context) (Table, error)
}

// errNoSource is reported when no corpus source is configured.
var errNoSource = errors.New("no corpus source configured")

// LoadCorpus reads and builds a corpus from src. Any failure yields an empty
// corpus together with the reason; it never panics on bad input.
func LoadCorpus(ctx context.Context, src Source) (Corpus, error) {
	if src == nil {
		return Corpus{}, errNoSource
	}
	table, err := src.Load(ctx)
	if err != nil {
		return Corpus{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	corpus, err := BuildCorpus(table)
	if err != nil {
		return Corpus{}, fmt.Errorf("build corpus from %s: %w", src.Name(), err)
	}
	return corpus, nil
}

// FAQCorpus returns the corpus from src, or DefaultCorpus when src yields
// nothing usable.
func FAQCorpus(ctx context.Context, src Source, logger *slog.Logger) Corpus {
	corpus, _ := loadOrDefault(ctx, src, logger)
	return corpus
}

// loadOrDefault is the single fallback rule; the flag reports whether the
// built-in entries were used.
func loadOrDefault(ctx context.Context, src Source, logger *slog.Logger) (Corpus, bool) {
	corpus, err := LoadCorpus(ctx, src)
	if corpus.Len() > 0 {
		return corpus, false
	}
	if logger != nil {
		if err == nil {
			err = errors.New("corpus source has no usable rows")
		}
		logger.Warn("faq corpus unavailable, using built-in entries", "source", sourceName(src), "error", err)
	}
	return DefaultCorpus(), true
}

func sourceName(src Source) string {
	if src == nil {
		return "none"
	}
	return src.Name()
}

// DefaultCorpus is the built-in fallback knowledge base.
func DefaultCorpus() Corpus {
	base := []struct {
		question, answer, tags string
	}{
		{
			"How do I find my registration time?",
			"Open Banner Self Service → Student → Registration → Check Registration Eligibility. You can also use the Time Ticket flyer in Policies.",
			"registration time,ticket,eligibility,when can I register",
		},
		{
			"What should I do if a class is full?",
			"Pick a back-up from your guide, monitor for opens, and contact the department for overrides.",
			"class full,closed,override,capacity",
		},
		{
			"Who clears my advising hold?",
			"Your advisor clears it after you review your guide or meet. The confirmation email means it’s clear.",
			"advising hold,remove hold,clear hold",
		},
		{
			"How do I withdraw from a course?",
			"Follow the 'Withdraw in Banner Self Service' PDF in Policies. Deadlines apply.",
			"withdraw,drop class,deadline",
		},
		{
			"Can you advise my minor?",
			"Please contact the minor’s department; see Contacts for details.",
			"minor advising,minor questions",
		},
	}
	out := make(Corpus, 0, len(base))
	for _, item := range base {
		out = append(out, NewEntry(item.question, item.answer, item.tags))
	}
	return out
}
