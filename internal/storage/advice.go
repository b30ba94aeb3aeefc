package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"duit/internal/model"
)

// SaveAdvice stores one AI-generated summary. Content is opaque; the row's
// creation timestamp is the daily cache key.
func (s *SQLiteStorage) SaveAdvice(ctx context.Context, content string) (*model.Advice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(content, "content"); err != nil {
		return nil, err
	}
	return s.saveAdviceTx(ctx, s.db, content)
}

func (s *SQLiteStorage) saveAdviceTx(ctx context.Context, q queryable, content string) (*model.Advice, error) {
	now := time.Now()
	result, err := q.ExecContext(ctx,
		`INSERT INTO ai_advice (content, created_at) VALUES (?, ?)`,
		content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save advice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get advice ID: %w", err)
	}

	slog.Info("cached advice", "id", id)
	return &model.Advice{ID: id, Content: content, CreatedAt: now}, nil
}

// GetAdviceForDay returns the most recent advice created on the given
// calendar day, or nil when no advice was generated that day.
func (s *SQLiteStorage) GetAdviceForDay(ctx context.Context, day time.Time) (*model.Advice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getAdviceForDayTx(ctx, s.db, day)
}

func (s *SQLiteStorage) getAdviceForDayTx(ctx context.Context, q queryable, day time.Time) (*model.Advice, error) {
	query := `
		SELECT id, content, created_at
		FROM ai_advice
		WHERE date(created_at) = date(?)
		ORDER BY created_at DESC
		LIMIT 1`

	var advice model.Advice
	err := q.QueryRowContext(ctx, query, day).Scan(&advice.ID, &advice.Content, &advice.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query advice: %w", err)
	}

	return &advice, nil
}
