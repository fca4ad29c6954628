package services

import (
	"context"
	"strings"
	"sync"

	"github.com/yogesh616/MediSearchServer/internal/models"
)

// countingStore is an in-memory QuestionStore that records how often each operation ran.
type countingStore struct {
	mu        sync.Mutex
	questions []models.Question
	pending   map[string]models.ReviewQuestion

	listCalls   int
	searchCalls int
	findCalls   int
	createCalls int

	err       error
	createErr error
}

func newCountingStore(questions ...models.Question) *countingStore {
	return &countingStore{questions: questions, pending: map[string]models.ReviewQuestion{}}
}

func (s *countingStore) ListQuestions(_ context.Context, offset, limit int) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	if offset >= len(s.questions) {
		return []models.Question{}, nil
	}
	end := offset + limit
	if end > len(s.questions) {
		end = len(s.questions)
	}
	return append([]models.Question(nil), s.questions[offset:end]...), nil
}

func (s *countingStore) SearchQuestions(_ context.Context, query string, limit int) ([]models.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Suggestion
	for _, q := range s.questions {
		if strings.Contains(strings.ToLower(q.Input), strings.ToLower(strings.TrimSpace(query))) {
			out = append(out, models.Suggestion{Input: q.Input})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *countingStore) FindQuestionByInput(_ context.Context, input string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	if s.err != nil {
		return nil, s.err
	}
	for _, q := range s.questions {
		if q.Input == input {
			found := q
			return &found, nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (s *countingStore) FindPendingByInput(_ context.Context, input string) (*models.ReviewQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if review, ok := s.pending[input]; ok {
		return &review, nil
	}
	return nil, ErrPendingNotFound
}

func (s *countingStore) CreatePending(_ context.Context, review *models.ReviewQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.pending[review.Input]; ok {
		return ErrDuplicateSubmission
	}
	s.pending[review.Input] = *review
	return nil
}

func (s *countingStore) calls() (list, search, find, create int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls, s.searchCalls, s.findCalls, s.createCalls
}
