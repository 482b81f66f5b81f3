package faq

// Request encapsulates a FAQ question.
type Request struct {
	Question  string   `json:"question"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// Suggestion is a ranked FAQ question offered alongside (or instead of) an
// answer.
type Suggestion struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Signals  Signals `json:"signals"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Question        string       `json:"question"`
	Matched         bool         `json:"matched"`
	Answer          string       `json:"answer,omitempty"`
	MatchedQuestion string       `json:"matchedQuestion,omitempty"`
	Score           float64      `json:"score"`
	Threshold       float64      `json:"threshold"`
	Suggestions     []Suggestion `json:"suggestions"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
