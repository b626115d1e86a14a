package errors

// Rejection reasons of the QR validation protocol. All of these are
// expected, caller-facing outcomes, not crashes.
var (
	ErrMalformedTLV = &DomainError{
		Code:    "MALFORMED_TLV",
		Message: "content is not a parseable TLV payload",
	}
	ErrChecksumMismatch = &DomainError{
		Code:    "CHECKSUM_MISMATCH",
		Message: "payload checksum does not match",
	}
	ErrNoTransactionID = &DomainError{
		Code:    "NO_TRANSACTION_ID",
		Message: "payload carries no transaction id",
	}
	ErrSignatureInvalid = &DomainError{
		Code:    "SIGNATURE_INVALID",
		Message: "payload signature is invalid",
	}
	ErrUnknownSigningKey = &DomainError{
		Code:    "UNKNOWN_SIGNING_KEY",
		Message: "signature key id is not known",
	}
	ErrUnknownTransaction = &DomainError{
		Code:    "UNKNOWN_TRANSACTION",
		Message: "transaction not found",
	}
	ErrTransactionExpired = &DomainError{
		Code:    "EXPIRED",
		Message: "transaction has expired",
	}
	ErrReplayDetected = &DomainError{
		Code:    "REPLAY_DETECTED",
		Message: "transaction was already consumed",
	}
	ErrRateLimited = &DomainError{
		Code:    "RATE_LIMITED",
		Message: "too many QR generations, retry later",
	}
)
