package repository

import (
	"context"
	"fmt"

	"github.com/arjunks/vendora/internal/domain"
)

// InsertOrder persists the immutable order snapshot with its line items.
func (q *Queries) InsertOrder(ctx context.Context, o *domain.Order) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, address_id, payment_method, status,
		                    total_amount, coupon_code, coupon_deduction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.UserID, o.AddressID, o.PaymentMethod, o.Status,
		o.TotalAmount, o.CouponCode, o.CouponDeduction, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err := q.db.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, category_name,
			                         brand_name, quantity, price, original_price, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, o.ID, item.ProductID, item.Name, item.CategoryName,
			item.BrandName, item.Quantity, item.Price, item.OriginalPrice, item.Status)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (q *Queries) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := q.db.QueryRow(ctx, `
		SELECT id, user_id, address_id, payment_method, status,
		       total_amount, coupon_code, coupon_deduction, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.UserID, &o.AddressID, &o.PaymentMethod, &o.Status,
		&o.TotalAmount, &o.CouponCode, &o.CouponDeduction, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.Query(ctx, `
		SELECT product_id, name, category_name, brand_name, quantity, price, original_price, status
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ProductID, &item.Name, &item.CategoryName, &item.BrandName,
			&item.Quantity, &item.Price, &item.OriginalPrice, &item.Status)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

// UpdateOrderStatus moves the overall status and every line still in the
// default flow. Returns pgx.ErrNoRows when the order does not exist.
func (q *Queries) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	var id string
	err := q.db.QueryRow(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1 RETURNING id
	`, orderID, status).Scan(&id)
	if err != nil {
		return err
	}

	_, err = q.db.Exec(ctx, `
		UPDATE order_items SET status = $2 WHERE order_id = $1
	`, orderID, status)
	if err != nil {
		return fmt.Errorf("update order item statuses: %w", err)
	}
	return nil
}

func (q *Queries) AppendSalesReport(ctx context.Context, entries []domain.SalesReportEntry) error {
	for _, e := range entries {
		_, err := q.db.Exec(ctx, `
			INSERT INTO sales_reports (id, order_id, user_id, product_name, category_name,
			                           brand_name, quantity, unit_price, total_price,
			                           discount, coupon_deduction, order_status, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, e.ID, e.OrderID, e.UserID, e.ProductName, e.CategoryName,
			e.BrandName, e.Quantity, e.UnitPrice, e.TotalPrice,
			e.Discount, e.CouponDeduction, e.OrderStatus, e.Date)
		if err != nil {
			return fmt.Errorf("append sales report row: %w", err)
		}
	}
	return nil
}

// UpdateSalesReportStatus is the one-way Order -> SalesReport propagation.
func (q *Queries) UpdateSalesReportStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	_, err := q.db.Exec(ctx, `
		UPDATE sales_reports SET order_status = $2 WHERE order_id = $1
	`, orderID, status)
	if err != nil {
		return fmt.Errorf("update sales report status: %w", err)
	}
	return nil
}
