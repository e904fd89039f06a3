package postgres

import (
	"context"
	"fmt"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryStore struct {
	pool *pgxpool.Pool
}

func NewCategoryStore(pool *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT key, name, icon, icon_type, sort_order, created_at
		FROM categories
		ORDER BY sort_order ASC NULLS LAST, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.Key,
			&category.Name,
			&category.Icon,
			&category.IconType,
			&category.SortOrder,
			&category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func (s *CategoryStore) Insert(ctx context.Context, in ports.CategoryInput) (domain.Category, error) {
	query := `
		INSERT INTO categories (key, name, icon, icon_type)
		VALUES ($1, $2, $3, $4)
		RETURNING key, name, icon, icon_type, sort_order, created_at
	`

	var created domain.Category
	err := s.pool.QueryRow(ctx, query, in.Key, in.Name, in.Icon, in.IconType).Scan(
		&created.Key,
		&created.Name,
		&created.Icon,
		&created.IconType,
		&created.SortOrder,
		&created.CreatedAt,
	)
	if err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return created, nil
}

func (s *CategoryStore) Update(ctx context.Context, key string, patch ports.CategoryPatch) error {
	query := `
		UPDATE categories
		SET name = $1, icon = $2, icon_type = $3
		WHERE key = $4
	`

	result, err := s.pool.Exec(ctx, query, patch.Name, patch.Icon, patch.IconType, key)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (s *CategoryStore) UpdatePosition(ctx context.Context, key string, position int) error {
	query := `
		UPDATE categories
		SET sort_order = $1
		WHERE key = $2
	`

	result, err := s.pool.Exec(ctx, query, position, key)
	if err != nil {
		return fmt.Errorf("update category position: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM categories WHERE key = $1`

	result, err := s.pool.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}
