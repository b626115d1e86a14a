package qr

// GenerateResult is the generation flow's output. Rendering qrContent to
// an image happens downstream.
type GenerateResult struct {
	TransactionID string `json:"transactionId"`
	QRContent     string `json:"qrContent"`
}

// Terminal states reported by the validation flow. REJECTED describes the
// attempt, not a stored transaction state.
const (
	StateUsed     = "USED"
	StateExpired  = "EXPIRED"
	StateRejected = "REJECTED"
)

// ValidationResult is the outcome of one validate-and-consume attempt.
// Reason carries the machine-readable rejection code, empty on success.
type ValidationResult struct {
	Accepted      bool   `json:"accepted"`
	State         string `json:"state"`
	Reason        string `json:"reason,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}
