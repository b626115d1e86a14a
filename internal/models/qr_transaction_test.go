package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsumable(t *testing.T) {
	expire := time.Unix(1700000300, 0)
	tx := &QrTransaction{ExpireAt: expire}

	assert.True(t, tx.Consumable(expire.Add(-time.Second)))
	// the expiry instant itself is still consumable; only after it is not
	assert.True(t, tx.Consumable(expire))
	assert.False(t, tx.Consumable(expire.Add(time.Second)))

	used := &QrTransaction{ExpireAt: expire, Used: true}
	assert.False(t, used.Consumable(expire.Add(-time.Minute)))
}
