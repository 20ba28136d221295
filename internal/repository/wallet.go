package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arjunks/vendora/internal/domain"
)

func (q *Queries) GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	_, err := q.db.Exec(ctx, `
		INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure wallet: %w", err)
	}

	w := &domain.Wallet{UserID: userID}
	err = q.db.QueryRow(ctx, `
		SELECT balance FROM wallets WHERE user_id = $1
	`, userID).Scan(&w.Balance)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.Query(ctx, `
		SELECT id, date, type, status, amount, description
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wallet transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Type, &t.Status, &t.Amount, &t.Description); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		w.Transactions = append(w.Transactions, t)
	}
	return w, rows.Err()
}

// ApplyTransaction runs the balance move and the ledger append in one
// transaction: the balance never changes without its ledger row.
func (s *store) ApplyTransaction(ctx context.Context, userID string, amount float64, txType domain.TransactionType, status domain.TransactionStatus, description string) error {
	return s.execTx(ctx, func(q *Queries) error {
		return q.ApplyTransaction(ctx, userID, amount, txType, status, description)
	})
}

// ApplyTransaction appends a ledger row and, for completed transactions,
// moves the balance. A completed debit is guarded so the balance can never
// go negative; pgx.ErrNoRows is returned when the guard fails. Callers
// outside an existing transaction go through the store-level wrapper.
func (q *Queries) ApplyTransaction(ctx context.Context, userID string, amount float64, txType domain.TransactionType, status domain.TransactionStatus, description string) error {
	if status == domain.TransactionCompleted {
		switch txType {
		case domain.TransactionCredit:
			_, err := q.db.Exec(ctx, `
				INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
				ON CONFLICT (user_id) DO UPDATE SET balance = wallets.balance + $2
			`, userID, amount)
			if err != nil {
				return fmt.Errorf("credit wallet: %w", err)
			}
		case domain.TransactionDebit:
			var balance float64
			err := q.db.QueryRow(ctx, `
				UPDATE wallets
				SET balance = balance - $2
				WHERE user_id = $1 AND balance >= $2
				RETURNING balance
			`, userID, amount).Scan(&balance)
			if err != nil {
				return err
			}
		}
	}

	_, err := q.db.Exec(ctx, `
		INSERT INTO wallet_transactions (id, user_id, date, type, status, amount, description)
		VALUES ($1, $2, NOW(), $3, $4, $5, $6)
	`, uuid.New().String(), userID, txType, status, amount, description)
	if err != nil {
		return fmt.Errorf("append wallet transaction: %w", err)
	}
	return nil
}

// DebitWallet is the checkout-time settlement: a conditional balance
// decrement plus a completed debit ledger row, in the caller's transaction.
func (q *Queries) DebitWallet(ctx context.Context, userID string, amount float64, description string) error {
	return q.ApplyTransaction(ctx, userID, amount, domain.TransactionDebit, domain.TransactionCompleted, description)
}
