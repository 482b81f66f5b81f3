package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/advisor-assistant/pkg/errors"
	"github.com/yanqian/advisor-assistant/pkg/util"
)

const defaultHistoryLimit = 6

// Service records FAQ conversations per session.
type Service interface {
	Ask(ctx context.Context, req AskRequest) (Exchange, error)
	History(ctx context.Context, sessionID string) ([]Turn, error)
}

type service struct {
	cfg    Config
	faqSvc faq.Service
	store  Store
	logger *slog.Logger
	now    util.Clock
}

// NewService wires the chat log around the FAQ service.
func NewService(cfg Config, faqSvc faq.Service, store Store, logger *slog.Logger) Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &service{
		cfg:    cfg,
		faqSvc: faqSvc,
		store:  store,
		logger: logger.With("component", "chat.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Ask(ctx context.Context, req AskRequest) (Exchange, error) {
	sessionID, err := resolveSession(req.SessionID)
	if err != nil {
		return Exchange{}, err
	}

	resp, err := s.faqSvc.Ask(ctx, faq.Request{Question: req.Question, Threshold: req.Threshold})
	if err != nil {
		return Exchange{}, err
	}

	now := s.now()
	user := Turn{Role: RoleUser, Text: resp.Question, At: now}
	bot := Turn{Role: RoleBot, Text: NoMatchReply, Score: resp.Score, At: now}
	if resp.Matched {
		bot.Text = resp.Answer
		bot.MatchedQuestion = resp.MatchedQuestion
	}
	if err := s.store.Append(ctx, sessionID, user, bot); err != nil {
		s.logger.Warn("chat history append failed", "session", sessionID, "error", err)
	}

	history, err := s.store.Recent(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		s.logger.Warn("chat history read failed", "session", sessionID, "error", err)
		history = []Turn{user, bot}
	}

	return Exchange{SessionID: sessionID, Result: resp, History: history}, nil
}

func (s *service) History(ctx context.Context, sessionID string) ([]Turn, error) {
	id, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "session id is not valid", err)
	}
	turns, err := s.store.Recent(ctx, id.String(), s.cfg.HistoryLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeChat, "failed to load chat history", err)
	}
	return turns, nil
}

func resolveSession(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewString(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "session id is not valid", err)
	}
	return id.String(), nil
}
