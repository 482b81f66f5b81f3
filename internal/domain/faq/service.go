package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/advisor-assistant/pkg/errors"
)

// Service exposes FAQ matching over the live catalog.
type Service interface {
	Ask(ctx context.Context, req Request) (Response, error)
	Entries(ctx context.Context) []Entry
	CorpusInfo(ctx context.Context) ReloadResult
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Reload(ctx context.Context) ReloadResult
	Import(ctx context.Context, filename string, content []byte) (ReloadResult, error)
}

type service struct {
	cfg     Config
	catalog *Catalog
	store   Store
	decoder TableDecoder
	logger  *slog.Logger
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, catalog *Catalog, store Store, decoder TableDecoder, logger *slog.Logger) Service {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &service{
		cfg:     cfg,
		catalog: catalog,
		store:   store,
		decoder: decoder,
		logger:  logger.With("component", "faq.service"),
	}
}

func (s *service) Ask(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	threshold := s.cfg.Threshold
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "threshold must be between 0 and 1", nil)
		}
		threshold = *req.Threshold
	}

	result := answerTop(question, s.catalog.Snapshot(), threshold, s.cfg.TopK)

	resp := Response{
		Question:    question,
		Threshold:   threshold,
		Suggestions: make([]Suggestion, 0, len(result.Ranked)),
	}
	for _, candidate := range result.Ranked {
		resp.Suggestions = append(resp.Suggestions, Suggestion{
			Question: candidate.Entry.Question,
			Score:    candidate.Score,
			Signals:  candidate.Signals,
		})
	}
	if len(result.Ranked) > 0 {
		resp.Score = result.Ranked[0].Score
	}
	if result.Accepted != nil {
		resp.Matched = true
		resp.Answer = result.Accepted.Answer
		resp.MatchedQuestion = result.Accepted.Question
	}

	s.logger.Debug("faq answered", "matched", resp.Matched, "score", resp.Score, "threshold", threshold)

	if s.store != nil {
		if err := s.store.IncrementQuery(ctx, Normalize(question), question); err != nil {
			s.logger.Warn("faq trending increment failed", "error", err)
		}
	}

	return resp, nil
}

func (s *service) Entries(_ context.Context) []Entry {
	snap := s.catalog.Snapshot()
	out := make([]Entry, len(snap))
	copy(out, snap)
	return out
}

func (s *service) CorpusInfo(_ context.Context) ReloadResult {
	return s.catalog.Info()
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	if s.store == nil {
		return []TrendingQuery{}, nil
	}
	recs, err := s.store.TopQueries(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFAQ, "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) Reload(ctx context.Context) ReloadResult {
	return s.catalog.Reload(ctx)
}

func (s *service) Import(_ context.Context, filename string, content []byte) (ReloadResult, error) {
	if len(content) == 0 {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "corpus file is empty", nil)
	}
	if s.cfg.MaxImportBytes > 0 && int64(len(content)) > s.cfg.MaxImportBytes {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("corpus file exceeds %d bytes", s.cfg.MaxImportBytes), nil)
	}
	if s.decoder == nil {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeFAQ, "corpus import is not configured", nil)
	}
	table, err := s.decoder.Decode(filename, content)
	if err != nil {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "corpus file could not be read", err)
	}
	corpus, err := BuildCorpus(table)
	if err != nil {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "corpus file is missing columns", err)
	}
	if corpus.Len() == 0 {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "corpus file has no usable rows", errors.New("no rows"))
	}
	result := s.catalog.Replace(corpus, "upload:"+filename)
	s.logger.Info("faq corpus imported", "file", filename, "entries", result.Entries)
	return result, nil
}
