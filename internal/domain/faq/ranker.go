package faq

import (
	"sort"
	"strings"
)

const (
	// DefaultTopK is how many candidates Answer ranks.
	DefaultTopK = 3
	// DefaultThreshold is the minimum blended score for a confident answer.
	DefaultThreshold = 0.38
)

// Candidate is an entry scored against one query.
type Candidate struct {
	Entry   Entry   `json:"entry"`
	Score   float64 `json:"score"`
	Signals Signals `json:"signals"`
}

// MatchResult is the outcome of Answer. Accepted is nil when no candidate
// clears the threshold; Ranked is returned either way so callers can offer
// suggestions.
type MatchResult struct {
	Accepted *Entry
	Ranked   []Candidate
}

// TopMatches scores every entry against text and returns the k best, highest
// first. Entries with equal scores keep their corpus order.
func TopMatches(text string, corpus Corpus, k int) []Candidate {
	if k <= 0 {
		k = DefaultTopK
	}
	q := prepareQuery(text)
	scored := make([]Candidate, 0, len(corpus))
	for _, entry := range corpus {
		signals := q.signals(entry)
		scored = append(scored, Candidate{Entry: entry, Score: signals.Blend(), Signals: signals})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Answer ranks the corpus for text and accepts the top candidate when its
// score reaches threshold.
func Answer(text string, corpus Corpus, threshold float64) MatchResult {
	return answerTop(text, corpus, threshold, DefaultTopK)
}

func answerTop(text string, corpus Corpus, threshold float64, k int) MatchResult {
	if strings.TrimSpace(text) == "" || len(corpus) == 0 {
		return MatchResult{Ranked: []Candidate{}}
	}
	ranked := TopMatches(text, corpus, k)
	result := MatchResult{Ranked: ranked}
	if len(ranked) > 0 && ranked[0].Score >= threshold {
		best := ranked[0].Entry
		result.Accepted = &best
	}
	return result
}
