package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// BillRepository handles data access for bills and their line items.
type BillRepository struct {
	db *sqlx.DB
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{db: db}
}

type billItemRow struct {
	BillID string `db:"bill_id"`
	models.BillItem
}

// GetAll returns every bill, newest first, with its items attached.
func (r *BillRepository) GetAll(ctx context.Context) ([]models.Bill, error) {
	const billsQuery = `
        SELECT id, bill_no, customer_name, customer_type, issued_at, total
        FROM bills
        ORDER BY issued_at DESC, id`

	bills := []models.Bill{}
	if err := r.db.SelectContext(ctx, &bills, billsQuery); err != nil {
		return nil, fmt.Errorf("select bills: %w", err)
	}
	if len(bills) == 0 {
		return bills, nil
	}

	const itemsQuery = `
        SELECT bill_id, product_name, product_id, price, quantity
        FROM bill_items
        ORDER BY bill_id, id`

	var rows []billItemRow
	if err := r.db.SelectContext(ctx, &rows, itemsQuery); err != nil {
		return nil, fmt.Errorf("select bill items: %w", err)
	}

	byBill := make(map[string][]models.BillItem, len(bills))
	for _, row := range rows {
		byBill[row.BillID] = append(byBill[row.BillID], row.BillItem)
	}
	for i := range bills {
		bills[i].Items = byBill[bills[i].ID]
	}
	return bills, nil
}
