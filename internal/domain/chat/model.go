package chat

import (
	"time"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// NoMatchReply is the bot turn recorded when no FAQ entry clears the threshold.
const NoMatchReply = "No exact match. Try one of the suggested questions above or rephrase."

// Turn is one message in a session's log.
type Turn struct {
	Role            Role      `json:"role"`
	Text            string    `json:"text"`
	MatchedQuestion string    `json:"matchedQuestion,omitempty"`
	Score           float64   `json:"score,omitempty"`
	At              time.Time `json:"at"`
}

// Config controls history retention.
type Config struct {
	HistoryLimit int
}

// AskRequest is a question asked inside a session. An empty SessionID starts
// a new session.
type AskRequest struct {
	SessionID string   `json:"sessionId"`
	Question  string   `json:"question"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// Exchange is the FAQ outcome plus the session's recent turns.
type Exchange struct {
	SessionID string       `json:"sessionId"`
	Result    faq.Response `json:"result"`
	History   []Turn       `json:"history"`
}
