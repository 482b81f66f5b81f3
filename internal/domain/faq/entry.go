package faq

import "strings"

// Entry is one canned question/answer unit. Entries are immutable; the
// normalized forms and token sets are derived once in NewEntry.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Tags     string `json:"tags,omitempty"`

	normalizedQuestion string
	normalizedAll      string

	allTokens  map[string]struct{}
	tagTokens  map[string]struct{}
	allBigrams map[Bigram]struct{}
}

// NewEntry trims the display fields and precomputes the matching data.
func NewEntry(question, answer, tags string) Entry {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	tags = strings.TrimSpace(tags)

	normalizedAll := Normalize(question + " " + answer + " " + tags)
	allTokens := Tokenize(normalizedAll)

	return Entry{
		Question:           question,
		Answer:             answer,
		Tags:               tags,
		normalizedQuestion: Normalize(question),
		normalizedAll:      normalizedAll,
		allTokens:          tokenSet(allTokens),
		tagTokens:          tokenSet(Tokenize(tags)),
		allBigrams:         bigramSet(Bigrams(allTokens)),
	}
}

// NormalizedQuestion is the canonical token string of the question.
func (e Entry) NormalizedQuestion() string {
	return e.normalizedQuestion
}

// NormalizedAll is the canonical token string of question, answer and tags.
func (e Entry) NormalizedAll() string {
	return e.normalizedAll
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func bigramSet(pairs []Bigram) map[Bigram]struct{} {
	set := make(map[Bigram]struct{}, len(pairs))
	for _, pair := range pairs {
		set[pair] = struct{}{}
	}
	return set
}
