package faq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	table Table
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) (Table, error) {
	s.calls++
	return s.table, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEntryDerivesNormalizedFields(t *testing.T) {
	entry := NewEntry("  How do I find my registration time? ", " Check Banner. ", " ticket ")
	require.Equal(t, "How do I find my registration time?", entry.Question)
	require.Equal(t, "Check Banner.", entry.Answer)
	require.Equal(t, "ticket", entry.Tags)
	require.Equal(t, "how do i find my registration time", entry.NormalizedQuestion())
	require.Equal(t, "how do i find my registration time check banner ticket", entry.NormalizedAll())
}

func TestDefaultCorpus(t *testing.T) {
	corpus := DefaultCorpus()
	require.Equal(t, 5, corpus.Len())
	questions := make([]string, 0, corpus.Len())
	for _, e := range corpus {
		require.NotEmpty(t, e.Answer)
		require.Equal(t, Normalize(e.Question), e.NormalizedQuestion())
		questions = append(questions, e.Question)
	}
	require.Equal(t, []string{
		"How do I find my registration time?",
		"What should I do if a class is full?",
		"Who clears my advising hold?",
		"How do I withdraw from a course?",
		"Can you advise my minor?",
	}, questions)
}

func TestBuildCorpusCaseInsensitiveHeaders(t *testing.T) {
	table := Table{
		Header: []string{"QUESTION", " Answer ", "TaGs", "Owner"},
		Rows: [][]string{
			{"Where is the registrar?", "Building A.", "office,location", "ops"},
			{"When is the deadline?", "Friday.", "nan", "ops"},
			{"Short row?", "Yes."},
			{"  ", "orphan answer", "x"},
			{"No answer", "", "x"},
		},
	}
	corpus, err := BuildCorpus(table)
	require.NoError(t, err)
	require.Equal(t, 3, corpus.Len())
	require.Equal(t, "office,location", corpus[0].Tags)
	require.Equal(t, "", corpus[1].Tags)
	require.Equal(t, "", corpus[2].Tags)
	require.Equal(t, "Short row?", corpus[2].Question)
}

func TestBuildCorpusWithoutTagsColumn(t *testing.T) {
	corpus, err := BuildCorpus(Table{
		Header: []string{"question", "answer"},
		Rows:   [][]string{{"Q1", "A1"}, {"Q1", "A1"}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, corpus.Len())
	require.Equal(t, 0.0, Breakdown("q1", corpus[0]).OverlapTags)
}

func TestBuildCorpusMissingRequiredColumn(t *testing.T) {
	_, err := BuildCorpus(Table{Header: []string{"Question", "Tags"}, Rows: [][]string{{"q", "t"}}})
	require.ErrorIs(t, err, ErrMissingColumn)

	_, err = BuildCorpus(Table{Header: []string{"Answer"}})
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoadCorpusFailuresYieldEmpty(t *testing.T) {
	corpus, err := LoadCorpus(context.Background(), nil)
	require.Error(t, err)
	require.Empty(t, corpus)

	corpus, err = LoadCorpus(context.Background(), &stubSource{err: errors.New("no such file")})
	require.Error(t, err)
	require.Empty(t, corpus)

	corpus, err = LoadCorpus(context.Background(), &stubSource{table: Table{Header: []string{"Question", "Tags"}}})
	require.ErrorIs(t, err, ErrMissingColumn)
	require.Empty(t, corpus)
}

func TestFAQCorpusFallsBackToDefault(t *testing.T) {
	sources := []Source{
		nil,
		&stubSource{err: errors.New("unreadable")},
		&stubSource{table: Table{Header: []string{"Question", "Tags"}, Rows: [][]string{{"q", "t"}}}},
		&stubSource{table: Table{Header: []string{"Question", "Answer"}}},
	}
	for _, src := range sources {
		require.Equal(t, DefaultCorpus(), FAQCorpus(context.Background(), src, discardLogger()))
	}
}

func TestFAQCorpusUsesSource(t *testing.T) {
	src := &stubSource{table: Table{
		Header: []string{"Question", "Answer"},
		Rows:   [][]string{{"Where do I park?", "Lot C."}},
	}}
	corpus := FAQCorpus(context.Background(), src, discardLogger())
	require.Equal(t, 1, corpus.Len())
	require.Equal(t, "Where do I park?", corpus[0].Question)
	require.Equal(t, 1, src.calls)
}
