package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sampleQuestions(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, models.Question{
			ID:     uint(i),
			Input:  fmt.Sprintf("What causes symptom %d?", i),
			Output: fmt.Sprintf("Cause %d.", i),
		})
	}
	return questions
}

func newTestService(t *testing.T, store QuestionStore, opts ...QuestionServiceOption) (*QuestionService, *cache.MemoryStore, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	mem := cache.NewMemoryStore(cache.MemoryConfig{MaxEntries: 100, Clock: clock.Now})
	t.Cleanup(func() { _ = mem.Close() })

	opts = append([]QuestionServiceOption{WithClock(clock.Now)}, opts...)
	svc, err := NewQuestionService(store, cache.NewReadThrough(mem, cache.DefaultTTL), opts...)
	require.NoError(t, err)
	return svc, mem, clock
}

func TestNewQuestionServiceRequiresStore(t *testing.T) {
	_, err := NewQuestionService(nil, nil)
	require.Error(t, err)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 5, 2, 5},
		{1, 50, 1, 50},
		{1, 1000, 1, 50},
	}
	for _, tc := range cases {
		page, limit := NormalizePage(tc.page, tc.limit)
		require.Equal(t, tc.wantPage, page)
		require.Equal(t, tc.wantLimit, limit)
	}
}

func TestListPageClampsLimit(t *testing.T) {
	store := newCountingStore(sampleQuestions(80)...)
	svc, _, _ := newTestService(t, store)

	payload, err := svc.ListPage(context.Background(), 1, 1000)
	require.NoError(t, err)

	var page []models.QuestionView
	require.NoError(t, json.Unmarshal(payload, &page))
	require.Len(t, page, 50)
}

func TestListPageOffsetsAndProjects(t *testing.T) {
	store := newCountingStore(sampleQuestions(25)...)
	svc, _, _ := newTestService(t, store)

	payload, err := svc.ListPage(context.Background(), 3, 10)
	require.NoError(t, err)
	require.NotContains(t, string(payload), `"id"`)

	var page []models.QuestionView
	require.NoError(t, json.Unmarshal(payload, &page))
	require.Len(t, page, 5)
	require.Equal(t, "What causes symptom 21?", page[0].Input)

	payload, err = svc.ListPage(context.Background(), 9, 10)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(payload))
}

func TestListPageIsServedFromCacheUntilExpiry(t *testing.T) {
	store := newCountingStore(sampleQuestions(3)...)
	svc, _, clock := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	second, err := svc.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, first, second)

	list, _, _, _ := store.calls()
	require.Equal(t, 1, list)

	clock.Advance(cache.DefaultTTL + time.Second)
	_, err = svc.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	list, _, _, _ = store.calls()
	require.Equal(t, 2, list)
}

func TestListPageStoreErrorIsNotCached(t *testing.T) {
	store := newCountingStore(sampleQuestions(3)...)
	store.err = errors.New("connection refused")
	svc, mem, _ := newTestService(t, store)

	_, err := svc.ListPage(context.Background(), 1, 10)
	require.EqualError(t, err, "connection refused")
	require.Zero(t, mem.Len())
}

func TestSuggestBlankQuerySkipsCacheAndStore(t *testing.T) {
	store := newCountingStore(sampleQuestions(3)...)
	svc, mem, _ := newTestService(t, store)

	for _, query := range []string{"", "   "} {
		payload, err := svc.Suggest(context.Background(), query)
		require.NoError(t, err)
		require.JSONEq(t, `[]`, string(payload))
	}

	_, search, _, _ := store.calls()
	require.Zero(t, search)
	require.Zero(t, mem.Len())
}

func TestSuggestReturnsSameShapeOnHitAndMiss(t *testing.T) {
	store := newCountingStore(sampleQuestions(3)...)
	svc, _, _ := newTestService(t, store)
	ctx := context.Background()

	miss, err := svc.Suggest(ctx, "symptom 2")
	require.NoError(t, err)
	require.JSONEq(t, `[{"input":"What causes symptom 2?"}]`, string(miss))

	hit, err := svc.Suggest(ctx, "  SYMPTOM   2 ")
	require.NoError(t, err)
	require.JSONEq(t, string(miss), string(hit))

	_, search, _, _ := store.calls()
	require.Equal(t, 1, search)
}

func TestSuggestLegacyCacheShape(t *testing.T) {
	store := newCountingStore(sampleQuestions(3)...)
	svc, _, _ := newTestService(t, store, WithLegacySuggestionCache(true))
	ctx := context.Background()

	miss, err := svc.Suggest(ctx, "symptom 2")
	require.NoError(t, err)
	require.JSONEq(t, `[{"input":"What causes symptom 2?"}]`, string(miss))

	hit, err := svc.Suggest(ctx, "symptom 2")
	require.NoError(t, err)
	require.JSONEq(t, `["What causes symptom 2?"]`, string(hit))
}

func TestSuggestNoMatchesIsEmptyArray(t *testing.T) {
	svc, _, _ := newTestService(t, newCountingStore(sampleQuestions(3)...))

	payload, err := svc.Suggest(context.Background(), "zebra")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(payload))
}

func TestAnswer(t *testing.T) {
	store := newCountingStore(sampleQuestions(3)...)
	svc, _, _ := newTestService(t, store)
	ctx := context.Background()

	_, _, err := svc.Answer(ctx, "  ")
	require.ErrorIs(t, err, ErrNoQuery)

	answer, found, err := svc.Answer(ctx, "What causes symptom 1?")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Cause 1.", answer)

	answer, found, err = svc.Answer(ctx, "What causes symptom 1?")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Cause 1.", answer)

	_, _, find, _ := store.calls()
	require.Equal(t, 1, find)
}

func TestAnswerNotFoundIsNotCached(t *testing.T) {
	store := newCountingStore(sampleQuestions(1)...)
	svc, mem, _ := newTestService(t, store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, found, err := svc.Answer(ctx, "what causes symptom 1?")
		require.NoError(t, err)
		require.False(t, found)
	}

	_, _, find, _ := store.calls()
	require.Equal(t, 2, find)
	require.Zero(t, mem.Len())
}

func TestSubmitDeduplicates(t *testing.T) {
	store := newCountingStore(sampleQuestions(1)...)
	svc, mem, clock := newTestService(t, store)
	ctx := context.Background()

	require.ErrorIs(t, svc.Submit(ctx, " "), ErrInputRequired)
	require.ErrorIs(t, svc.Submit(ctx, "What causes symptom 1?"), ErrQuestionExists)

	require.NoError(t, svc.Submit(ctx, "Is fever contagious?"))
	require.ErrorIs(t, svc.Submit(ctx, "Is fever contagious?"), ErrQuestionExists)

	review := store.pending["Is fever contagious?"]
	require.Equal(t, clock.Now(), review.CreatedAt)
	require.Zero(t, mem.Len())
}

func TestSubmitTrimsInputLikeAnswerLookup(t *testing.T) {
	store := newCountingStore(sampleQuestions(1)...)
	svc, _, _ := newTestService(t, store)
	ctx := context.Background()

	require.ErrorIs(t, svc.Submit(ctx, "What causes symptom 1? "), ErrQuestionExists)

	require.NoError(t, svc.Submit(ctx, "  Is fever contagious?\n"))
	require.Contains(t, store.pending, "Is fever contagious?")
	require.ErrorIs(t, svc.Submit(ctx, "Is fever contagious?"), ErrQuestionExists)
	require.Len(t, store.pending, 1)
}

func TestListPageBeyondOffsetRangeIsEmpty(t *testing.T) {
	store := newCountingStore(sampleQuestions(5)...)
	svc, mem, _ := newTestService(t, store)

	for _, tc := range []struct{ page, limit int }{
		{page: math.MaxInt/2 + 2, limit: 2},
		{page: math.MaxInt, limit: 10},
		{page: math.MaxInt, limit: MaxLimit},
	} {
		payload, err := svc.ListPage(context.Background(), tc.page, tc.limit)
		require.NoError(t, err)
		require.JSONEq(t, `[]`, string(payload), "page=%d limit=%d", tc.page, tc.limit)
	}
	require.Zero(t, store.listCalls)
	require.Zero(t, mem.Len())

	// The largest representable offset still reaches the store.
	payload, err := svc.ListPage(context.Background(), math.MaxInt/2+1, 2)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(payload))
	require.Equal(t, 1, store.listCalls)
}

func TestSubmitTranslatesInsertRaceToConflict(t *testing.T) {
	store := newCountingStore()
	store.createErr = ErrDuplicateSubmission
	svc, _, _ := newTestService(t, store)

	require.ErrorIs(t, svc.Submit(context.Background(), "Is fever contagious?"), ErrQuestionExists)
}

func TestSubmitPropagatesStoreErrors(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("disk I/O error")
	svc, _, _ := newTestService(t, store)

	err := svc.Submit(context.Background(), "Is fever contagious?")
	require.EqualError(t, err, "disk I/O error")
}
