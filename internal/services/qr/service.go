// Package qr implements the QR payment content subsystem: building the
// signed, checksummed TLV payload bound to a short-lived transaction, and
// the validation protocol that consumes it exactly once.
package qr

import (
	"context"
	"fmt"
	"log"

	"ezpay/internal/config"
	domainErrors "ezpay/internal/errors"
	"ezpay/internal/models"
	"ezpay/internal/repositories"
	"ezpay/internal/validation"
)

type Service struct {
	cfg     *config.QRConfig
	store   TransactionStore
	signer  Signer
	limiter RateLimiter
	cache   TransactionCache
	granter Granter
}

// NewService wires the subsystem. cache and granter may be nil; the
// others are required.
func NewService(cfg *config.QRConfig, store TransactionStore, signer Signer, limiter RateLimiter, cache TransactionCache, granter Granter) *Service {
	if cfg == nil {
		panic("config is required")
	}
	if store == nil {
		panic("transaction store is required")
	}
	if signer == nil {
		panic("signer is required")
	}
	if limiter == nil {
		panic("rate limiter is required")
	}
	return &Service{
		cfg:     cfg,
		store:   store,
		signer:  signer,
		limiter: limiter,
		cache:   cache,
		granter: granter,
	}
}

// GenerateQR admits the caller through the rate limiter, creates the
// transaction row and encodes its payload. Destination account details
// come from configuration, never from the request.
func (s *Service) GenerateQR(ctx context.Context, callerKey, amount, message string) (*GenerateResult, error) {
	if callerKey == "" {
		callerKey = "anonymous"
	}
	if !s.limiter.TryConsume(callerKey) {
		return nil, domainErrors.ErrRateLimited
	}
	if err := validation.ValidateGenerateRequest(amount, message); err != nil {
		return nil, err
	}

	tx, err := s.store.Create(ctx, repositories.CreateQrTransactionParams{
		BankCode:       s.cfg.BankCode,
		BankAccount:    s.cfg.BankAccount,
		Amount:         amount,
		Message:        message,
		CreatedBy:      callerKey,
		TTL:            s.cfg.TTL,
		SignatureKeyID: s.signer.ActiveKeyID(),
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	content, err := s.BuildContent(tx)
	if err != nil {
		return nil, fmt.Errorf("build content for %s: %w", tx.TransactionID, err)
	}

	if s.cache != nil {
		if err := s.cache.CacheTransaction(ctx, tx); err != nil {
			log.Printf("failed to cache transaction %s: %v", tx.TransactionID, err)
		}
	}

	return &GenerateResult{TransactionID: tx.TransactionID, QRContent: content}, nil
}

// GetTransaction reads a transaction for the metadata and image
// endpoints, through the cache when one is wired.
func (s *Service) GetTransaction(ctx context.Context, transactionID string) (*models.QrTransaction, error) {
	if s.cache != nil {
		if tx, err := s.cache.GetTransaction(ctx, transactionID); err == nil && tx != nil {
			return tx, nil
		} else if err != nil {
			log.Printf("cache read for %s failed: %v", transactionID, err)
		}
	}
	tx, err := s.store.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.CacheTransaction(ctx, tx); err != nil {
			log.Printf("failed to cache transaction %s: %v", transactionID, err)
		}
	}
	return tx, nil
}
