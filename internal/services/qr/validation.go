package qr

import (
	"context"
	"errors"
	"log"
	"time"

	"ezpay/internal/emvqr"
	domainErrors "ezpay/internal/errors"
	"ezpay/internal/repositories"
)

// ValidateAndMark runs the validate-and-consume protocol. Cheap structural
// checks come first so garbage never reaches the store; the atomic mark is
// last, and is still the only mutation even if every earlier check passed.
func (s *Service) ValidateAndMark(ctx context.Context, rawContent, callerKey string) (*ValidationResult, error) {
	if callerKey == "" {
		callerKey = "anonymous"
	}
	content := Sanitize(rawContent)

	if err := CheckContent(content); err != nil {
		return rejected("", err), nil
	}

	transactionID, err := ExtractTransactionID(content)
	if err != nil {
		return rejected("", err), nil
	}

	tx, err := s.store.FindByTransactionID(ctx, transactionID)
	if errors.Is(err, domainErrors.ErrUnknownTransaction) {
		return rejected(transactionID, domainErrors.ErrUnknownTransaction), nil
	}
	if err != nil {
		return nil, err
	}

	// Verify against the stored fields, not the presented ones: a forged
	// payload with a freshly computed CRC still fails here.
	sig, keyID, ok := presentedSignature(content)
	if !ok {
		return rejected(transactionID, domainErrors.ErrSignatureInvalid), nil
	}
	if keyID != tx.SignatureKeyID {
		log.Printf("signature key mismatch for %s: payload %q, stored %q", transactionID, keyID, tx.SignatureKeyID)
		return rejected(transactionID, domainErrors.ErrSignatureInvalid), nil
	}
	if err := s.signer.Verify(sig, tx.TransactionID, tx.Amount, tx.CreatedAt, tx.ExpireAt, tx.SignatureKeyID); err != nil {
		if errors.Is(err, domainErrors.ErrUnknownSigningKey) {
			// Possible forgery or a retired key; log loudly but answer with
			// the same rejection to avoid an oracle.
			log.Printf("unknown signing key %q presented for %s", tx.SignatureKeyID, transactionID)
		}
		return rejected(transactionID, domainErrors.ErrSignatureInvalid), nil
	}

	if time.Now().After(tx.ExpireAt) {
		return &ValidationResult{State: StateExpired, Reason: domainErrors.ErrTransactionExpired.Code, TransactionID: transactionID}, nil
	}

	result, err := s.store.MarkUsedIfEligible(ctx, transactionID, callerKey)
	if err != nil {
		return nil, err
	}
	switch result {
	case repositories.MarkSuccess:
		s.afterConsume(ctx, transactionID, callerKey)
		return &ValidationResult{Accepted: true, State: StateUsed, TransactionID: transactionID}, nil
	case repositories.MarkAlreadyUsed:
		return rejected(transactionID, domainErrors.ErrReplayDetected), nil
	case repositories.MarkExpired:
		return &ValidationResult{State: StateExpired, Reason: domainErrors.ErrTransactionExpired.Code, TransactionID: transactionID}, nil
	default:
		return rejected(transactionID, domainErrors.ErrUnknownTransaction), nil
	}
}

// afterConsume drops the stale cache entry and notifies the grant
// collaborator. Neither failure unwinds the consumption.
func (s *Service) afterConsume(ctx context.Context, transactionID, callerKey string) {
	if s.cache != nil {
		if err := s.cache.InvalidateTransaction(ctx, transactionID); err != nil {
			log.Printf("failed to invalidate cache for %s: %v", transactionID, err)
		}
	}
	if s.granter != nil {
		tx, err := s.store.FindByTransactionID(ctx, transactionID)
		if err != nil {
			log.Printf("failed to load %s for grant: %v", transactionID, err)
			return
		}
		if err := s.granter.GrantPayment(ctx, tx, callerKey); err != nil {
			log.Printf("grant for %s failed: %v", transactionID, err)
		}
	}
}

func presentedSignature(content string) (sig, keyID string, ok bool) {
	t, err := emvqr.Parse(content)
	if err != nil {
		return "", "", false
	}
	add, found := t.Get(emvqr.TagAdditionalData)
	if !found {
		return "", "", false
	}
	sub, err := emvqr.Parse(add)
	if err != nil {
		return "", "", false
	}
	sig, _ = sub.Get(emvqr.SubTagSignature)
	keyID, _ = sub.Get(emvqr.SubTagSignatureKey)
	return sig, keyID, sig != "" && keyID != ""
}

func rejected(transactionID string, reason error) *ValidationResult {
	code := "REJECTED"
	if de, ok := domainErrors.AsDomain(reason); ok {
		code = de.Code
	}
	return &ValidationResult{State: StateRejected, Reason: code, TransactionID: transactionID}
}
