package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
)

// CreateOffer inserts the offer and refreshes the denormalized
// discounted_price/has_offer columns of every targeted product in the same
// transaction, so a product never references an offer the catalog does not
// reflect.
func (s *store) CreateOffer(ctx context.Context, o *domain.Offer) error {
	return s.execTx(ctx, func(q *Queries) error {
		_, err := q.db.Exec(ctx, `
			INSERT INTO offers (id, offer_type, product_id, category_id, discount, end_date, is_active)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		`, o.ID, o.OfferType, o.ProductID, o.CategoryID, o.Discount, o.EndDate, o.IsActive)
		if err != nil {
			return fmt.Errorf("insert offer: %w", err)
		}
		return q.repriceOfferTargets(ctx, o)
	})
}

// DeactivateOffer retires the offer and recomputes the affected products'
// denormalized prices from the offers that remain valid.
func (s *store) DeactivateOffer(ctx context.Context, id string) error {
	return s.execTx(ctx, func(q *Queries) error {
		var o domain.Offer
		row := q.db.QueryRow(ctx, `
			UPDATE offers SET is_active = FALSE
			WHERE id = $1
			RETURNING id, offer_type, product_id, category_id, discount, end_date, is_active
		`, id)
		got, err := scanOffer(row)
		if err != nil {
			return err
		}
		o = *got
		return q.repriceOfferTargets(ctx, &o)
	})
}

// repriceOfferTargets recomputes discounted_price/has_offer for every
// product the offer covers, using the currently valid offers.
func (q *Queries) repriceOfferTargets(ctx context.Context, o *domain.Offer) error {
	var productIDs []string
	if o.OfferType == domain.OfferTypeProduct {
		productIDs = []string{o.ProductID}
	} else {
		rows, err := q.db.Query(ctx, `SELECT id FROM products WHERE category_id = $1`, o.CategoryID)
		if err != nil {
			return fmt.Errorf("query category products: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan product id: %w", err)
			}
			productIDs = append(productIDs, id)
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}

	now := time.Now()
	for _, productID := range productIDs {
		product, err := q.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("load product %s: %w", productID, err)
		}

		productOffer, err := q.FindOfferForProduct(ctx, productID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		categoryOffer, err := q.FindOfferForCategory(ctx, product.CategoryID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		priced := domain.ResolveOffer(product.Price, productOffer, categoryOffer, now)
		if err := q.UpdateDiscountedPrice(ctx, productID, priced.DiscountedPrice, priced.HasOffer); err != nil {
			return err
		}
	}
	return nil
}
