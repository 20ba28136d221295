package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/repository"
)

// WalletService exposes the wallet ledger to the boundary layer.
type WalletService struct {
	wallets repository.Wallets
}

func NewWalletService(wallets repository.Wallets) *WalletService {
	return &WalletService{wallets: wallets}
}

func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.wallets.GetOrCreateWallet(ctx, userID)
}

// ApplyTransaction appends a ledger entry; a completed debit that would
// take the balance negative is rejected.
func (s *WalletService) ApplyTransaction(ctx context.Context, userID string, amount float64, txType domain.TransactionType, status domain.TransactionStatus, description string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if amount < 0 {
		return fmt.Errorf("transaction amount must be non-negative")
	}

	if _, err := s.wallets.GetOrCreateWallet(ctx, userID); err != nil {
		return err
	}

	err := s.wallets.ApplyTransaction(ctx, userID, amount, txType, status, description)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrInsufficientBalance
	}
	return err
}
