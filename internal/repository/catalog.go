package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
)

const productColumns = `
	p.id, p.name, p.price, p.discounted_price, p.has_offer, p.stock,
	p.category_id, c.name, p.brand_id, b.name, p.created_at
`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.DiscountedPrice, &p.HasOffer, &p.Stock,
		&p.CategoryID, &p.CategoryName, &p.BrandID, &p.BrandName, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *Queries) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1
	`, id)
	return scanProduct(row)
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	var productID, categoryID *string
	err := row.Scan(&o.ID, &o.OfferType, &productID, &categoryID, &o.Discount, &o.EndDate, &o.IsActive)
	if err != nil {
		return nil, err
	}
	if productID != nil {
		o.ProductID = *productID
	}
	if categoryID != nil {
		o.CategoryID = *categoryID
	}
	return &o, nil
}

// FindOfferForProduct returns the currently valid product-level offer with
// the deepest discount, or pgx.ErrNoRows when none exists.
func (q *Queries) FindOfferForProduct(ctx context.Context, productID string) (*domain.Offer, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, offer_type, product_id, category_id, discount, end_date, is_active
		FROM offers
		WHERE offer_type = 'product' AND product_id = $1 AND is_active AND end_date > NOW()
		ORDER BY discount DESC
		LIMIT 1
	`, productID)
	return scanOffer(row)
}

func (q *Queries) FindOfferForCategory(ctx context.Context, categoryID string) (*domain.Offer, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, offer_type, product_id, category_id, discount, end_date, is_active
		FROM offers
		WHERE offer_type = 'category' AND category_id = $1 AND is_active AND end_date > NOW()
		ORDER BY discount DESC
		LIMIT 1
	`, categoryID)
	return scanOffer(row)
}

// UpdateDiscountedPrice persists a recomputed effective price onto the
// product record.
func (q *Queries) UpdateDiscountedPrice(ctx context.Context, productID string, price float64, hasOffer bool) error {
	_, err := q.db.Exec(ctx, `
		UPDATE products SET discounted_price = $2, has_offer = $3 WHERE id = $1
	`, productID, price, hasOffer)
	if err != nil {
		return fmt.Errorf("update discounted price: %w", err)
	}
	return nil
}

// DecrementStock removes quantity units from a product's stock only when
// enough stock remains. Returns pgx.ErrNoRows when the guard fails, so the
// read-check-decrement sequence is a single atomic statement.
func (q *Queries) DecrementStock(ctx context.Context, productID string, quantity int) error {
	var remaining int
	return q.db.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`, productID, quantity).Scan(&remaining)
}
