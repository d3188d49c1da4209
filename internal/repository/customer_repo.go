package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// CustomerRepository handles data access for customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetAll returns every customer.
func (r *CustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	const q = `SELECT id, name, type FROM customers ORDER BY name, id`

	customers := []models.Customer{}
	if err := r.db.SelectContext(ctx, &customers, q); err != nil {
		return nil, err
	}
	return customers, nil
}
