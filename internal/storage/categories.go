package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"duit/internal/common"
	"duit/internal/model"
)

// CreateCategory creates a new user-facing category. Priority groups are
// accepted only on expense categories; name is globally unique.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(name, categoryType, priority); err != nil {
		return nil, err
	}
	return s.createCategoryTx(ctx, s.db, name, categoryType, priority)
}

func (s *SQLiteStorage) createCategoryTx(ctx context.Context, q queryable, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, category_type, priority_group, created_at)
		VALUES (?, ?, ?, ?)`

	now := time.Now()
	result, err := q.ExecContext(ctx, query, name, string(categoryType), string(priority), now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	category := &model.Category{
		ID:        id,
		Name:      name,
		Type:      categoryType,
		Priority:  priority,
		CreatedAt: now,
	}

	slog.Info("created category", "name", name, "type", categoryType, "id", id)
	return category, nil
}

// GetCategoryByID returns a category by its ID, or nil if it does not exist.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoryByIDTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getCategoryByIDTx(ctx context.Context, q queryable, id int64) (*model.Category, error) {
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, category_type, priority_group, icon, created_at
		FROM categories
		WHERE id = ?`

	return scanCategoryRow(q.QueryRowContext(ctx, query, id))
}

// GetCategoryByName returns a category by its unique name, or nil if absent.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getCategoryByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getCategoryByNameTx(ctx context.Context, q queryable, name string) (*model.Category, error) {
	query := `
		SELECT id, name, category_type, priority_group, icon, created_at
		FROM categories
		WHERE name = ?`

	return scanCategoryRow(q.QueryRowContext(ctx, query, name))
}

func scanCategoryRow(row *sql.Row) (*model.Category, error) {
	var cat model.Category
	var categoryType, priority string
	err := row.Scan(&cat.ID, &cat.Name, &categoryType, &priority, &cat.Icon, &cat.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	cat.Type = model.CategoryType(categoryType)
	cat.Priority = model.PriorityGroup(priority)
	return &cat, nil
}

// ListCategories returns all categories ordered by type then name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listCategoriesTx(ctx, s.db)
}

func (s *SQLiteStorage) listCategoriesTx(ctx context.Context, q queryable) ([]model.Category, error) {
	query := `
		SELECT id, name, category_type, priority_group, icon, created_at
		FROM categories
		ORDER BY category_type, name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var categoryType, priority string
		if err := rows.Scan(&cat.ID, &cat.Name, &categoryType, &priority, &cat.Icon, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Type = model.CategoryType(categoryType)
		cat.Priority = model.PriorityGroup(priority)
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// FindOrCreateCategory looks a category up by name, creating it if absent.
// It is the idempotent upsert used for sentinel categories: a concurrent
// creation losing the INSERT race degrades to re-fetching the winner's row,
// never a duplicate name and never a fatal error.
func (s *SQLiteStorage) FindOrCreateCategory(ctx context.Context, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(name, categoryType, priority); err != nil {
		return nil, err
	}
	return s.findOrCreateCategoryTx(ctx, s.db, name, categoryType, priority)
}

func (s *SQLiteStorage) findOrCreateCategoryTx(ctx context.Context, q queryable, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error) {
	existing, err := s.getCategoryByNameTx(ctx, q, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := s.createCategoryTx(ctx, q, name, categoryType, priority)
	if err == nil {
		return created, nil
	}

	// Lost the creation race: the unique constraint fired, so the row now
	// exists. Re-fetch and return it.
	if errors.Is(err, common.ErrDuplicateName) {
		existing, fetchErr := s.getCategoryByNameTx(ctx, q, name)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if existing != nil {
			return existing, nil
		}
	}

	return nil, err
}
