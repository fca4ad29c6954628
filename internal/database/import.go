package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/yogesh616/MediSearchServer/internal/models"
)

const importBatchSize = 200

// ImportResult summarises a bulk question import.
type ImportResult struct {
	Inserted int
	Skipped  int
}

// ImportQuestions loads a JSON array of {"input","output"} objects into the question table.
// Rows with a blank input, or whose input already exists in the table or earlier in the
// file, are skipped.
func ImportQuestions(ctx context.Context, db *gorm.DB, r io.Reader) (ImportResult, error) {
	var result ImportResult
	if db == nil {
		return result, errors.New("import: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.QuestionView
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return result, fmt.Errorf("import: decode: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	batch := make([]models.Question, 0, importBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.WithContext(ctx).Create(&batch).Error; err != nil {
			return err
		}
		result.Inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, row := range rows {
		input := strings.TrimSpace(row.Input)
		if input == "" {
			result.Skipped++
			continue
		}
		if _, dup := seen[input]; dup {
			result.Skipped++
			continue
		}
		seen[input] = struct{}{}

		var count int64
		if err := db.WithContext(ctx).Model(&models.Question{}).Where("input = ?", input).Count(&count).Error; err != nil {
			return result, fmt.Errorf("import: lookup: %w", err)
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		batch = append(batch, models.Question{Input: input, Output: row.Output})
		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return result, fmt.Errorf("import: insert: %w", err)
			}
		}
	}

	if err := flush(); err != nil {
		return result, fmt.Errorf("import: insert: %w", err)
	}
	return result, nil
}
