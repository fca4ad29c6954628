package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/models"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/pkg/logger"
	"github.com/yogesh616/MediSearchServer/pkg/metrics"
)

// Paging and search bounds.
const (
	DefaultPage     = 1
	DefaultLimit    = 10
	MaxLimit        = 50
	SuggestionLimit = 10
)

var (
	// ErrNoQuery is returned by Answer when the query is blank.
	ErrNoQuery = errors.New("question service: no query provided")
	// ErrInputRequired is returned by Submit when the input is blank.
	ErrInputRequired = errors.New("question service: question is required")
	// ErrQuestionExists is returned by Submit when the input is already known or pending review.
	ErrQuestionExists = errors.New("question service: question already exists or is pending review")
)

// QuestionService composes the read-through cache and the question store behind the four
// public operations.
type QuestionService struct {
	store        QuestionStore
	cache        *cache.ReadThrough
	now          func() time.Time
	legacyShapes bool
	log          *zap.Logger
}

// QuestionServiceOption customises a QuestionService.
type QuestionServiceOption func(*QuestionService)

// WithClock overrides the time source used for submission timestamps.
func WithClock(now func() time.Time) QuestionServiceOption {
	return func(s *QuestionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLegacySuggestionCache caches suggestions as a bare list of input strings, so a cache hit
// returns a different shape than the miss that populated it.
func WithLegacySuggestionCache(enabled bool) QuestionServiceOption {
	return func(s *QuestionService) {
		s.legacyShapes = enabled
	}
}

// NewQuestionService constructs a QuestionService. A nil cache disables caching.
func NewQuestionService(store QuestionStore, rt *cache.ReadThrough, opts ...QuestionServiceOption) (*QuestionService, error) {
	if store == nil {
		return nil, errors.New("question service: store is required")
	}

	svc := &QuestionService{
		store: store,
		cache: rt,
		now:   time.Now,
		log:   logger.WithModule("questions"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// NormalizePage applies listing defaults: non-positive page or limit select the defaults and
// limit is clamped to MaxLimit.
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ListPage returns the JSON payload for one page of question records.
func (s *QuestionService) ListPage(ctx context.Context, page, limit int) ([]byte, error) {
	page, limit = NormalizePage(page, limit)
	if page-1 > math.MaxInt/limit {
		// The offset is not representable, so the page lies past any stored record.
		return []byte("[]"), nil
	}
	key := cache.PageKey(page, limit)

	if payload, ok := s.cache.Lookup(ctx, key); ok {
		return payload, nil
	}

	questions, err := s.store.ListQuestions(ctx, (page-1)*limit, limit)
	metrics.ObserveStore("list", err)
	if err != nil {
		return nil, err
	}

	views := make([]models.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, q.View())
	}

	payload, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("question service: encode page: %w", err)
	}
	s.cache.Fill(ctx, key, payload)
	return payload, nil
}

// Suggest returns the JSON payload of up to SuggestionLimit inputs matching query. A blank
// query yields an empty array without consulting the cache or the store.
func (s *QuestionService) Suggest(ctx context.Context, query string) ([]byte, error) {
	if strings.TrimSpace(query) == "" {
		return []byte("[]"), nil
	}

	key := cache.SuggestionKey(query)
	if payload, ok := s.cache.Lookup(ctx, key); ok {
		return payload, nil
	}

	suggestions, err := s.store.SearchQuestions(ctx, query, SuggestionLimit)
	metrics.ObserveStore("search", err)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	payload, err := json.Marshal(suggestions)
	if err != nil {
		return nil, fmt.Errorf("question service: encode suggestions: %w", err)
	}

	cached := payload
	if s.legacyShapes {
		inputs := make([]string, 0, len(suggestions))
		for _, suggestion := range suggestions {
			inputs = append(inputs, suggestion.Input)
		}
		if cached, err = json.Marshal(inputs); err != nil {
			return nil, fmt.Errorf("question service: encode suggestions: %w", err)
		}
	}
	s.cache.Fill(ctx, key, cached)
	return payload, nil
}

// Answer returns the stored output for the question whose input equals query. found is false
// when no record matches; misses are not cached.
func (s *QuestionService) Answer(ctx context.Context, query string) (answer string, found bool, err error) {
	if strings.TrimSpace(query) == "" {
		return "", false, ErrNoQuery
	}

	key := cache.AnswerKey(query)
	if payload, ok := s.cache.Lookup(ctx, key); ok {
		if err := json.Unmarshal(payload, &answer); err == nil {
			return answer, true, nil
		}
		s.log.Warn("discarding undecodable cached answer", zap.String("key", key.String()))
	}

	question, err := s.store.FindQuestionByInput(ctx, strings.TrimSpace(query))
	if errors.Is(err, ErrQuestionNotFound) {
		metrics.ObserveStore("answer", nil)
		return "", false, nil
	}
	metrics.ObserveStore("answer", err)
	if err != nil {
		return "", false, err
	}

	payload, err := json.Marshal(question.Output)
	if err != nil {
		return "", false, fmt.Errorf("question service: encode answer: %w", err)
	}
	s.cache.Fill(ctx, key, payload)
	return question.Output, true, nil
}

// Submit records input for review unless it already exists as a question or a pending
// submission. Input is trimmed before the checks and the insert, matching the answer lookup.
// Submissions never touch the cache.
func (s *QuestionService) Submit(ctx context.Context, input string) error {
	var err error
	input = strings.TrimSpace(input)
	if input == "" {
		err = ErrInputRequired
	} else {
		err = s.submit(ctx, input)
	}

	outcome := "accepted"
	switch {
	case errors.Is(err, ErrInputRequired):
		outcome = "invalid"
	case errors.Is(err, ErrQuestionExists):
		outcome = "conflict"
	case err != nil:
		outcome = "error"
	}
	metrics.Submissions.WithLabelValues(outcome).Inc()
	monitoring.RecordSubmission(outcome)
	return err
}

func (s *QuestionService) submit(ctx context.Context, input string) error {
	_, err := s.store.FindQuestionByInput(ctx, input)
	switch {
	case err == nil:
		return ErrQuestionExists
	case !errors.Is(err, ErrQuestionNotFound):
		metrics.ObserveStore("submit_check", err)
		return err
	}

	_, err = s.store.FindPendingByInput(ctx, input)
	switch {
	case err == nil:
		return ErrQuestionExists
	case !errors.Is(err, ErrPendingNotFound):
		metrics.ObserveStore("submit_check", err)
		return err
	}
	metrics.ObserveStore("submit_check", nil)

	review := &models.ReviewQuestion{Input: input, CreatedAt: s.now().UTC()}
	err = s.store.CreatePending(ctx, review)
	if errors.Is(err, ErrDuplicateSubmission) {
		s.log.Debug("concurrent duplicate submission rejected by unique index")
		return ErrQuestionExists
	}
	metrics.ObserveStore("submit_insert", err)
	return err
}
