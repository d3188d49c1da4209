package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns every product ordered by name.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	const q = `
        SELECT id, alt_id, name, stock, buying_price, selling_price
        FROM products
        ORDER BY name, id`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}
