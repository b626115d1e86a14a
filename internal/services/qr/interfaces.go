package qr

import (
	"context"
	"time"

	"ezpay/internal/models"
	"ezpay/internal/repositories"
)

// TransactionStore is the persistence boundary the subsystem depends on.
// MarkUsedIfEligible is the only mutation and must be atomic: concurrent
// attempts on the same transaction resolve to exactly one MarkSuccess.
type TransactionStore interface {
	Create(ctx context.Context, p repositories.CreateQrTransactionParams) (*models.QrTransaction, error)
	FindByTransactionID(ctx context.Context, id string) (*models.QrTransaction, error)
	MarkUsedIfEligible(ctx context.Context, id, usedBy string) (repositories.MarkResult, error)
}

// Signer produces and checks the keyed signature embedded in payloads.
type Signer interface {
	ActiveKeyID() string
	Sign(transactionID, amount string, createdAt, expireAt time.Time, keyID string) (string, error)
	Verify(signature, transactionID, amount string, createdAt, expireAt time.Time, keyID string) error
}

// RateLimiter gates payload generation per caller key.
type RateLimiter interface {
	TryConsume(key string) bool
}

// Granter receives a consumed transaction. Whatever it grants is not this
// subsystem's business; failures are logged, never unwound.
type Granter interface {
	GrantPayment(ctx context.Context, tx *models.QrTransaction, usedBy string) error
}

// TransactionCache fronts metadata reads; implementations may be nil-safe
// no-ops when Redis is down.
type TransactionCache interface {
	CacheTransaction(ctx context.Context, tx *models.QrTransaction) error
	GetTransaction(ctx context.Context, transactionID string) (*models.QrTransaction, error)
	InvalidateTransaction(ctx context.Context, transactionID string) error
}
