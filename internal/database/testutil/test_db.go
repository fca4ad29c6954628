// Package testutil opens throwaway document stores for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yogesh616/MediSearchServer/internal/database"
	"github.com/yogesh616/MediSearchServer/internal/models"
)

// Option seeds or migrates the database opened by MustOpenTestDB.
type Option func(*fixture)

type fixture struct {
	migrate   bool
	questions []models.Question
	pending   []string
}

// WithAutoMigrate creates the question, review and cache tables.
func WithAutoMigrate() Option {
	return func(f *fixture) { f.migrate = true }
}

// WithQuestions migrates the schema and inserts the records in order, so ids follow
// argument order.
func WithQuestions(questions ...models.Question) Option {
	return func(f *fixture) {
		f.migrate = true
		f.questions = append(f.questions, questions...)
	}
}

// WithPending migrates the schema and queues the inputs for review.
func WithPending(inputs ...string) Option {
	return func(f *fixture) {
		f.migrate = true
		f.pending = append(f.pending, inputs...)
	}
}

// MustOpenTestDB opens a private in-memory SQLite database. Each call gets its own
// named shared-cache database, so parallel tests never see each other's rows.
func MustOpenTestDB(t testing.TB, opts ...Option) *gorm.DB {
	t.Helper()

	var f fixture
	for _, opt := range opts {
		opt(&f)
	}

	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if !f.migrate {
		return db
	}
	require.NoError(t, database.AutoMigrateAndSeed(db))

	for i := range f.questions {
		require.NoError(t, db.Create(&f.questions[i]).Error)
	}
	for _, input := range f.pending {
		review := models.ReviewQuestion{Input: input, CreatedAt: time.Now().UTC()}
		require.NoError(t, db.Create(&review).Error)
	}

	return db
}
