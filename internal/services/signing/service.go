// Package signing computes and verifies the keyed signatures embedded in
// QR payloads. Keys are a small rotating set addressed by id so payloads
// signed before a rotation stay verifiable until their transactions
// expire. HMAC stands in for a KMS/HSM integration.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	domainErrors "ezpay/internal/errors"
)

// TruncateBytes is how much of the HMAC-SHA256 output the payload carries.
// 12 bytes keeps the additional-data template within its two-digit TLV
// length budget alongside a UUID transaction id.
const TruncateBytes = 12

type Service struct {
	keys     map[string][]byte
	activeID string
}

func NewService(keys map[string][]byte, activeKeyID string) (*Service, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("signing: no keys configured")
	}
	if _, ok := keys[activeKeyID]; !ok {
		return nil, fmt.Errorf("signing: active key %q not in key set", activeKeyID)
	}
	copied := make(map[string][]byte, len(keys))
	for id, k := range keys {
		copied[id] = append([]byte(nil), k...)
	}
	return &Service{keys: copied, activeID: activeKeyID}, nil
}

// ActiveKeyID returns the id new payloads are signed under.
func (s *Service) ActiveKeyID() string {
	return s.activeID
}

// Sign produces the truncated, base64url-encoded signature over the
// transaction-identifying fields. Altering any of them invalidates it.
func (s *Service) Sign(transactionID, amount string, createdAt, expireAt time.Time, keyID string) (string, error) {
	key, ok := s.keys[keyID]
	if !ok {
		return "", domainErrors.ErrUnknownSigningKey
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(canonical(transactionID, amount, createdAt, expireAt)))
	sum := mac.Sum(nil)[:TruncateBytes]
	return base64.RawURLEncoding.EncodeToString(sum), nil
}

// Verify recomputes the signature from the given fields and compares it in
// constant time. An unknown key id fails closed.
func (s *Service) Verify(signature, transactionID, amount string, createdAt, expireAt time.Time, keyID string) error {
	expected, err := s.Sign(transactionID, amount, createdAt, expireAt, keyID)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domainErrors.ErrSignatureInvalid
	}
	return nil
}

// canonical fixes the field order and separator; changing it breaks every
// issued, still-valid payload.
func canonical(transactionID, amount string, createdAt, expireAt time.Time) string {
	return fmt.Sprintf("%s|%s|%d|%d", transactionID, amount, createdAt.Unix(), expireAt.Unix())
}
