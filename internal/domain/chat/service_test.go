package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/advisor-assistant/pkg/errors"
)

type stubFAQ struct {
	faq.Service
	resp faq.Response
	err  error
	last faq.Request
}

func (s *stubFAQ) Ask(_ context.Context, req faq.Request) (faq.Response, error) {
	s.last = req
	return s.resp, s.err
}

type recordingStore struct {
	turns     map[string][]Turn
	appendErr error
	recentErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{turns: map[string][]Turn{}}
}

func (s *recordingStore) Append(_ context.Context, sessionID string, turns ...Turn) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.turns[sessionID] = append(s.turns[sessionID], turns...)
	return nil
}

func (s *recordingStore) Recent(_ context.Context, sessionID string, limit int) ([]Turn, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	all := s.turns[sessionID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]Turn(nil), all...), nil
}

func newTestService(faqSvc faq.Service, store Store, limit int) *service {
	svc := NewService(Config{HistoryLimit: limit}, faqSvc, store, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestAskStartsSessionAndRecordsTurns(t *testing.T) {
	faqStub := &stubFAQ{resp: faq.Response{
		Question:        "when can i register",
		Matched:         true,
		Answer:          "Check Banner.",
		MatchedQuestion: "How do I find my registration time?",
		Score:           0.91,
	}}
	store := newRecordingStore()
	svc := newTestService(faqStub, store, 6)

	ex, err := svc.Ask(context.Background(), AskRequest{Question: "when can i register"})
	require.NoError(t, err)
	_, err = uuid.Parse(ex.SessionID)
	require.NoError(t, err)
	require.Equal(t, "when can i register", faqStub.last.Question)
	require.Len(t, ex.History, 2)
	require.Equal(t, RoleUser, ex.History[0].Role)
	require.Equal(t, "when can i register", ex.History[0].Text)
	require.Equal(t, RoleBot, ex.History[1].Role)
	require.Equal(t, "Check Banner.", ex.History[1].Text)
	require.Equal(t, "How do I find my registration time?", ex.History[1].MatchedQuestion)
}

func TestAskWithoutMatchRecordsPrompt(t *testing.T) {
	faqStub := &stubFAQ{resp: faq.Response{Question: "parking", Score: 0.1}}
	svc := newTestService(faqStub, newRecordingStore(), 6)

	ex, err := svc.Ask(context.Background(), AskRequest{Question: "parking"})
	require.NoError(t, err)
	require.Equal(t, NoMatchReply, ex.History[1].Text)
	require.Empty(t, ex.History[1].MatchedQuestion)
}

func TestAskHistoryIsBoundedAndAppendOnly(t *testing.T) {
	faqStub := &stubFAQ{resp: faq.Response{Question: "q", Matched: true, Answer: "a"}}
	store := newRecordingStore()
	svc := newTestService(faqStub, store, 4)
	session := uuid.NewString()

	for i := 0; i < 3; i++ {
		ex, err := svc.Ask(context.Background(), AskRequest{SessionID: session, Question: "q"})
		require.NoError(t, err)
		require.Equal(t, session, ex.SessionID)
	}
	require.Len(t, store.turns[session], 6)

	history, err := svc.History(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, history, 4)
}

func TestAskRejectsInvalidSession(t *testing.T) {
	svc := newTestService(&stubFAQ{}, newRecordingStore(), 6)
	_, err := svc.Ask(context.Background(), AskRequest{SessionID: "not-a-uuid", Question: "q"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.History(context.Background(), "nope")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAskPropagatesFAQErrors(t *testing.T) {
	faqErr := apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	svc := newTestService(&stubFAQ{err: faqErr}, newRecordingStore(), 6)
	_, err := svc.Ask(context.Background(), AskRequest{Question: " "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAskSurvivesStoreFailures(t *testing.T) {
	store := newRecordingStore()
	store.appendErr = errors.New("valkey down")
	store.recentErr = errors.New("valkey down")
	svc := newTestService(&stubFAQ{resp: faq.Response{Question: "q"}}, store, 6)

	ex, err := svc.Ask(context.Background(), AskRequest{Question: "q"})
	require.NoError(t, err)
	require.Len(t, ex.History, 2)

	_, err = svc.History(context.Background(), ex.SessionID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeChat))
}
