// Package grant receives successfully consumed transactions. The current
// implementation only records them; a ledger integration replaces it by
// satisfying the same interface.
package grant

import (
	"context"
	"log"

	"ezpay/internal/models"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) GrantPayment(ctx context.Context, tx *models.QrTransaction, callerKey string) error {
	log.Printf("payment granted: transaction=%s amount=%s bank=%s caller=%s",
		tx.TransactionID, tx.Amount, tx.BankCode, callerKey)
	return nil
}
