package validation

import (
	"strings"
	"testing"

	domainErrors "ezpay/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGenerateRequest(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		message string
		wantErr bool
	}{
		{"integer amount", "50000", "order #42", false},
		{"decimal amount", "50000.50", "", false},
		{"empty amount", "", "", true},
		{"non numeric amount", "fifty", "", true},
		{"zero amount", "0", "", true},
		{"negative amount", "-100", "", true},
		{"grouped digits rejected", "50,000", "", true},
		{"message at limit", "50000", strings.Repeat("a", MaxMessageLen), false},
		{"message over limit", "50000", strings.Repeat("a", MaxMessageLen+1), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGenerateRequest(tc.amount, tc.message)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			de, ok := domainErrors.AsDomain(err)
			require.True(t, ok)
			assert.Equal(t, "INVALID_REQUEST", de.Code)
		})
	}
}
