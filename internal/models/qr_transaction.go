package models

import "time"

// QrTransaction is one payment intent. A row is created per generation
// request and mutated exactly once, when the validation flow consumes it.
// Expiry is a logical state derived from ExpireAt; rows are never deleted
// here.
type QrTransaction struct {
	ID             uint      `gorm:"primarykey"`
	TransactionID  string    `gorm:"uniqueIndex;size:36;not null"`
	BankCode       string    `gorm:"size:32;not null"`
	BankAccount    string    `gorm:"size:32;not null"`
	Amount         string    `gorm:"size:20;not null"` // exact decimal string, never a float
	Message        string    `gorm:"size:255"`
	CreatedBy      string    `gorm:"size:120;index"`
	CreatedAt      time.Time `gorm:"not null"`
	ExpireAt       time.Time `gorm:"not null;index"`
	SignatureKeyID string    `gorm:"size:32;not null"`
	Used           bool      `gorm:"not null;default:false"`
	UsedBy         string    `gorm:"size:120"`
	UsedAt         *time.Time
}

// Consumable reports whether the transaction can still be marked used at
// the given instant.
func (t *QrTransaction) Consumable(now time.Time) bool {
	return !t.Used && !now.After(t.ExpireAt)
}
