package repositories

import (
	"context"
	"errors"
	"time"

	domainErrors "ezpay/internal/errors"
	"ezpay/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkResult is the outcome of the single conditional update that consumes
// a transaction.
type MarkResult int

const (
	MarkSuccess MarkResult = iota
	MarkAlreadyUsed
	MarkExpired
	MarkNotFound
)

// CreateQrTransactionParams are the immutable fields fixed at creation.
type CreateQrTransactionParams struct {
	BankCode       string
	BankAccount    string
	Amount         string
	Message        string
	CreatedBy      string
	TTL            time.Duration
	SignatureKeyID string
}

type QrTransactionRepository struct {
	db *gorm.DB
}

func NewQrTransactionRepository(db *gorm.DB) *QrTransactionRepository {
	if db == nil {
		panic("db is required")
	}
	return &QrTransactionRepository{db: db}
}

// Create inserts a fresh transaction with a unique id and
// expireAt = now + ttl.
func (r *QrTransactionRepository) Create(ctx context.Context, p CreateQrTransactionParams) (*models.QrTransaction, error) {
	now := time.Now()
	tx := &models.QrTransaction{
		TransactionID:  uuid.NewString(),
		BankCode:       p.BankCode,
		BankAccount:    p.BankAccount,
		Amount:         p.Amount,
		Message:        p.Message,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      now,
		ExpireAt:       now.Add(p.TTL),
		SignatureKeyID: p.SignatureKeyID,
		Used:           false,
	}
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *QrTransactionRepository) FindByTransactionID(ctx context.Context, id string) (*models.QrTransaction, error) {
	var tx models.QrTransaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", id).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrUnknownTransaction
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// MarkUsedIfEligible flips used false→true in one conditional UPDATE, so
// concurrent validation attempts for the same transaction are totally
// ordered by the database: exactly one sees RowsAffected == 1. When the
// update matched nothing, a re-read classifies the reason.
func (r *QrTransactionRepository) MarkUsedIfEligible(ctx context.Context, id, usedBy string) (MarkResult, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.QrTransaction{}).
		Where("transaction_id = ? AND used = ? AND expire_at > ?", id, false, now).
		Updates(map[string]interface{}{"used": true, "used_by": usedBy, "used_at": now})
	if res.Error != nil {
		return MarkNotFound, res.Error
	}
	if res.RowsAffected == 1 {
		return MarkSuccess, nil
	}

	var tx models.QrTransaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", id).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MarkNotFound, nil
	}
	if err != nil {
		return MarkNotFound, err
	}
	if tx.Used {
		return MarkAlreadyUsed, nil
	}
	return MarkExpired, nil
}
