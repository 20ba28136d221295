package repository

import (
	"context"
	"fmt"

	"github.com/arjunks/vendora/internal/domain"
)

// GetCart returns the user's cart with every line's product populated.
// Returns pgx.ErrNoRows when the user has no cart yet.
func (q *Queries) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := q.db.QueryRow(ctx, `
		SELECT user_id, coupon_code, total_amount, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&cart.UserID, &cart.CouponCode, &cart.TotalAmount, &cart.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.Query(ctx, `
		SELECT l.quantity, `+productColumns+`
		FROM cart_lines l
		JOIN products p ON p.id = l.product_id
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE l.user_id = $1
		ORDER BY p.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var p domain.Product
		err := rows.Scan(
			&line.Quantity,
			&p.ID, &p.Name, &p.Price, &p.DiscountedPrice, &p.HasOffer, &p.Stock,
			&p.CategoryID, &p.CategoryName, &p.BrandID, &p.BrandName, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		line.ProductID = p.ID
		line.Product = p
		cart.Lines = append(cart.Lines, line)
	}
	return &cart, rows.Err()
}

// GetLineQuantity returns the quantity already in the cart for a product,
// or pgx.ErrNoRows when the line does not exist.
func (q *Queries) GetLineQuantity(ctx context.Context, userID, productID string) (int, error) {
	var quantity int
	err := q.db.QueryRow(ctx, `
		SELECT quantity FROM cart_lines WHERE user_id = $1 AND product_id = $2
	`, userID, productID).Scan(&quantity)
	return quantity, err
}

// SetLine upserts a cart line, creating the cart document lazily.
func (q *Queries) SetLine(ctx context.Context, userID, productID string, quantity int) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("ensure cart: %w", err)
	}

	_, err = q.db.Exec(ctx, `
		INSERT INTO cart_lines (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
	`, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("set cart line: %w", err)
	}
	return nil
}

func (q *Queries) DeleteLine(ctx context.Context, userID, productID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete cart line: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) UpdateCartTotal(ctx context.Context, userID string, total float64) error {
	_, err := q.db.Exec(ctx, `
		UPDATE carts SET total_amount = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, total)
	if err != nil {
		return fmt.Errorf("update cart total: %w", err)
	}
	return nil
}

func (q *Queries) SetCartCoupon(ctx context.Context, userID, code string) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE carts SET coupon_code = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, code)
	if err != nil {
		return fmt.Errorf("set cart coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

// ClearCart empties the cart's lines after checkout; the cart document
// itself persists.
func (q *Queries) ClearCart(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, `
		DELETE FROM cart_lines WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("clear cart lines: %w", err)
	}
	_, err = q.db.Exec(ctx, `
		UPDATE carts SET total_amount = 0, coupon_code = '', updated_at = NOW() WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset cart: %w", err)
	}
	return nil
}
