package emvqr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("decodes fields in order", func(t *testing.T) {
		tlv, err := Parse("000201010212")
		require.NoError(t, err)
		assert.Equal(t, []string{"00", "01"}, tlv.Tags())

		v, ok := tlv.Get("00")
		assert.True(t, ok)
		assert.Equal(t, "01", v)

		v, ok = tlv.Get("01")
		assert.True(t, ok)
		assert.Equal(t, "12", v)
	})

	t.Run("empty content yields empty TLV", func(t *testing.T) {
		tlv, err := Parse("")
		require.NoError(t, err)
		assert.Equal(t, 0, tlv.Len())
	})

	t.Run("zero length value", func(t *testing.T) {
		tlv, err := Parse("5400")
		require.NoError(t, err)
		v, ok := tlv.Get("54")
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("duplicate tag keeps last value", func(t *testing.T) {
		tlv, err := Parse("5402105403999")
		require.NoError(t, err)
		v, _ := tlv.Get("54")
		assert.Equal(t, "999", v)
		assert.Equal(t, []string{"54"}, tlv.Tags())
	})

	malformed := []struct {
		name    string
		content string
	}{
		{"truncated header", "000201Z"},
		{"lone tag", "00"},
		{"non-numeric length", "00XX01"},
		{"negative-looking length", "00-101"},
		{"length overruns buffer", "00990"},
		{"truncated value", "00051234"},
	}
	for _, tc := range malformed {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "000201", Encode("00", "01"))
	assert.Equal(t, "5400", Encode("54", ""))
	assert.Equal(t, "5912Test Company", Encode("59", "Test Company"))

	t.Run("zero pads single digit lengths", func(t *testing.T) {
		assert.Equal(t, "6304ABCD", Encode("63", "ABCD"))
	})

	t.Run("truncates values past the two digit limit", func(t *testing.T) {
		long := strings.Repeat("x", 120)
		encoded := Encode("08", long)
		assert.Equal(t, "0899"+long[:99], encoded)
	})

	t.Run("round trips through Parse", func(t *testing.T) {
		content := Encode("00", "01") + Encode("59", "Shop") + Encode("54", "50000")
		tlv, err := Parse(content)
		require.NoError(t, err)
		v, _ := tlv.Get("54")
		assert.Equal(t, "50000", v)
	})
}

func TestFindTag(t *testing.T) {
	content := Encode("00", "01") + Encode("53", "704") + Encode("63", "ABCD")

	assert.Equal(t, 0, FindTag(content, "00"))
	assert.Equal(t, 6, FindTag(content, "53"))
	assert.Equal(t, 13, FindTag(content, "63"))
	assert.Equal(t, -1, FindTag(content, "99"))

	t.Run("stops at broken structure", func(t *testing.T) {
		assert.Equal(t, -1, FindTag("00XX6304ABCD", "63"))
	})

	t.Run("does not match tag bytes inside values", func(t *testing.T) {
		// value of tag 01 contains the bytes "63" but it is not a field
		content := Encode("01", "6304") + Encode("63", "ABCD")
		assert.Equal(t, 8, FindTag(content, "63"))
	})
}
