package faq

// Blend weights for the four similarity signals. They sum to 1, so a blended
// score stays within [0, 1].
const (
	// WeightOverlapAll rewards query words found anywhere in the entry.
	WeightOverlapAll = 0.40
	// WeightOverlapTags rewards query words found in the entry's tags.
	WeightOverlapTags = 0.30
	// WeightBigramAll rewards adjacent query word pairs found in the entry.
	WeightBigramAll = 0.15
	// WeightFuzzy rewards character-level closeness to the entry's question.
	WeightFuzzy = 0.15
)

// Signals holds the unweighted sub-scores behind a blended score.
type Signals struct {
	OverlapAll  float64 `json:"overlapAll"`
	OverlapTags float64 `json:"overlapTags"`
	BigramAll   float64 `json:"bigramAll"`
	Fuzzy       float64 `json:"fuzzy"`
}

// Blend combines the signals with the package weights.
func (s Signals) Blend() float64 {
	return WeightOverlapAll*s.OverlapAll +
		WeightOverlapTags*s.OverlapTags +
		WeightBigramAll*s.BigramAll +
		WeightFuzzy*s.Fuzzy
}

// query is a user question prepared once for scoring against many entries.
type query struct {
	normalized string
	tokens     map[string]struct{}
	bigrams    map[Bigram]struct{}
}

func prepareQuery(text string) query {
	normalized := Normalize(text)
	tokens := Tokenize(normalized)
	return query{
		normalized: normalized,
		tokens:     tokenSet(tokens),
		bigrams:    bigramSet(Bigrams(tokens)),
	}
}

// Score is the blended similarity between text and entry.
func Score(text string, entry Entry) float64 {
	return prepareQuery(text).signals(entry).Blend()
}

// Breakdown returns the individual signals behind Score.
func Breakdown(text string, entry Entry) Signals {
	return prepareQuery(text).signals(entry)
}

func (q query) signals(entry Entry) Signals {
	return Signals{
		OverlapAll:  overlap(q.tokens, entry.allTokens),
		OverlapTags: overlap(q.tokens, entry.tagTokens),
		BigramAll:   overlap(q.bigrams, entry.allBigrams),
		Fuzzy:       fuzzyRatio(q.normalized, entry.normalizedQuestion),
	}
}

// overlap is the share of distinct query items present in target. It is
// asymmetric: only the query's size is in the denominator.
func overlap[K comparable](queryItems, target map[K]struct{}) float64 {
	if len(queryItems) == 0 || len(target) == 0 {
		return 0
	}
	hits := 0
	for item := range queryItems {
		if _, ok := target[item]; ok {
			hits++
		}
	}
	return float64(hits) / float64(max(1, len(queryItems)))
}
