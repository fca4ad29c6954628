package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yogesh616/MediSearchServer/internal/database"
	"github.com/yogesh616/MediSearchServer/internal/models"
)

var (
	// ErrQuestionNotFound indicates no question record has the requested input.
	ErrQuestionNotFound = errors.New("question repository: question not found")
	// ErrPendingNotFound indicates no review submission has the requested input.
	ErrPendingNotFound = errors.New("question repository: pending question not found")
	// ErrDuplicateSubmission is returned when the review table's unique index rejects an insert.
	ErrDuplicateSubmission = errors.New("question repository: question already pending review")
)

const (
	maxSearchTokens       = 8
	sqliteSearchCandidate = 500
)

// QuestionStore is the document store contract used by QuestionService.
type QuestionStore interface {
	ListQuestions(ctx context.Context, offset, limit int) ([]models.Question, error)
	SearchQuestions(ctx context.Context, query string, limit int) ([]models.Suggestion, error)
	FindQuestionByInput(ctx context.Context, input string) (*models.Question, error)
	FindPendingByInput(ctx context.Context, input string) (*models.ReviewQuestion, error)
	CreatePending(ctx context.Context, review *models.ReviewQuestion) error
}

// QuestionRepository implements QuestionStore with gorm.
type QuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository constructs a repository once a database handle is supplied.
func NewQuestionRepository(db *gorm.DB) (*QuestionRepository, error) {
	if db == nil {
		return nil, errors.New("question repository: db is required")
	}
	return &QuestionRepository{db: db}, nil
}

// ListQuestions returns up to limit records in insertion order, skipping offset records.
func (r *QuestionRepository) ListQuestions(ctx context.Context, offset, limit int) ([]models.Question, error) {
	if offset < 0 {
		return nil, fmt.Errorf("question repository: negative offset %d", offset)
	}

	questions := make([]models.Question, 0, limit)
	err := r.db.WithContext(ensureContext(ctx)).
		Model(&models.Question{}).
		Select("id", "input", "output").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// SearchQuestions runs a ranked full-text search on question inputs using the dialect's
// native facility. SQLite has no built-in ranking, so candidates matching any query token are
// ranked in process by the number of distinct tokens they contain.
func (r *QuestionRepository) SearchQuestions(ctx context.Context, query string, limit int) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []models.Suggestion{}, nil
	}

	db := r.db.WithContext(ensureContext(ctx)).Model(&models.Question{})
	suggestions := make([]models.Suggestion, 0, limit)

	switch database.Dialect(r.db) {
	case "postgres":
		err := db.Select("input").
			Where("to_tsvector('english', input) @@ plainto_tsquery('english', ?)", query).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ts_rank(to_tsvector('english', input), plainto_tsquery('english', ?)) DESC, id",
				Vars:               []interface{}{query},
				WithoutParentheses: true,
			}}).
			Limit(limit).
			Find(&suggestions).Error
		if err != nil {
			return nil, err
		}
		return suggestions, nil
	case "mysql":
		err := db.Select("input").
			Where("MATCH(input) AGAINST (? IN NATURAL LANGUAGE MODE)", query).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "MATCH(input) AGAINST (? IN NATURAL LANGUAGE MODE) DESC, id",
				Vars:               []interface{}{query},
				WithoutParentheses: true,
			}}).
			Limit(limit).
			Find(&suggestions).Error
		if err != nil {
			return nil, err
		}
		return suggestions, nil
	default:
		return r.searchByTokens(db, query, limit)
	}
}

type searchCandidate struct {
	ID    uint
	Input string
}

func (r *QuestionRepository) searchByTokens(db *gorm.DB, query string, limit int) ([]models.Suggestion, error) {
	tokens := searchTokens(query)
	if len(tokens) == 0 {
		return []models.Suggestion{}, nil
	}

	conditions := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		conditions = append(conditions, "LOWER(input) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(token)+"%")
	}

	var candidates []searchCandidate
	err := db.Select("id", "input").
		Where(strings.Join(conditions, " OR "), args...).
		Order("id").
		Limit(sqliteSearchCandidate).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	scores := make([]int, len(candidates))
	for i, candidate := range candidates {
		lowered := strings.ToLower(candidate.Input)
		for _, token := range tokens {
			if strings.Contains(lowered, token) {
				scores[i]++
			}
		}
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	suggestions := make([]models.Suggestion, 0, len(order))
	for _, idx := range order {
		suggestions = append(suggestions, models.Suggestion{Input: candidates[idx].Input})
	}
	return suggestions, nil
}

// searchTokens lower-cases the query, splits on anything that is not a letter or digit and
// drops single-character and repeated tokens.
func searchTokens(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < 2 {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
		if len(tokens) == maxSearchTokens {
			break
		}
	}
	return tokens
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return replacer.Replace(value)
}

// FindQuestionByInput returns the first question whose input matches exactly.
func (r *QuestionRepository) FindQuestionByInput(ctx context.Context, input string) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ensureContext(ctx)).
		Where("input = ?", input).
		Order("id").
		Take(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindPendingByInput returns the pending review submission with the given input.
func (r *QuestionRepository) FindPendingByInput(ctx context.Context, input string) (*models.ReviewQuestion, error) {
	var review models.ReviewQuestion
	err := r.db.WithContext(ensureContext(ctx)).
		Where("input = ?", input).
		Take(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPendingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// CreatePending inserts a review submission. A unique index violation on input is reported
// as ErrDuplicateSubmission.
func (r *QuestionRepository) CreatePending(ctx context.Context, review *models.ReviewQuestion) error {
	if review == nil {
		return errors.New("question repository: review is required")
	}
	err := r.db.WithContext(ensureContext(ctx)).Create(review).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateSubmission
	}
	return err
}
