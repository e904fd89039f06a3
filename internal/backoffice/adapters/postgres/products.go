package postgres

import (
	"context"
	"fmt"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, category, COALESCE(priority, ''), COALESCE(image_url, ''), created_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Category,
			&product.Priority,
			&product.ImageURL,
			&product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (s *ProductStore) Insert(ctx context.Context, in ports.ProductInput) error {
	query := `
		INSERT INTO products (name, price, category, priority, image_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	`

	_, err := s.pool.Exec(ctx, query, in.Name, in.Price, in.Category, in.Priority, in.ImageURL)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (s *ProductStore) Update(ctx context.Context, id int64, in ports.ProductInput) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, category = $3, priority = $4, image_url = NULLIF($5, '')
		WHERE id = $6
	`

	result, err := s.pool.Exec(ctx, query, in.Name, in.Price, in.Category, in.Priority, in.ImageURL, id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}
