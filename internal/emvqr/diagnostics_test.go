package emvqr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issues(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Issue
	}
	return out
}

func TestAnalyze(t *testing.T) {
	t.Run("clean payload has no findings", func(t *testing.T) {
		body := Encode("00", "01") + Encode("54", "50000") + TagCRC + "04"
		content := body + Checksum(body)
		assert.Empty(t, Analyze(content))
	})

	t.Run("empty content", func(t *testing.T) {
		diags := Analyze("")
		require.Len(t, diags, 1)
		assert.Equal(t, "empty", diags[0].Issue)
	})

	t.Run("truncated header", func(t *testing.T) {
		assert.Contains(t, issues(Analyze("000201XY")), "truncated-header")
	})

	t.Run("non numeric length", func(t *testing.T) {
		assert.Contains(t, issues(Analyze("00ZZ01")), "bad-length")
	})

	t.Run("value overrun", func(t *testing.T) {
		assert.Contains(t, issues(Analyze("0099x")), "overrun")
	})

	t.Run("duplicate tag", func(t *testing.T) {
		body := Encode("54", "1") + Encode("54", "2") + TagCRC + "04"
		diags := Analyze(body + Checksum(body))
		assert.Contains(t, issues(diags), "duplicate")
	})

	t.Run("missing CRC", func(t *testing.T) {
		assert.Contains(t, issues(Analyze(Encode("00", "01"))), "missing-crc")
	})

	t.Run("bytes after CRC", func(t *testing.T) {
		body := Encode("00", "01") + TagCRC + "04"
		content := body + Checksum(body) + Encode("99", "x")
		assert.Contains(t, issues(Analyze(content)), "crc-not-last")
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		content := Encode("00", "01") + Encode(TagCRC, "0000")
		assert.Contains(t, issues(Analyze(content)), "crc-mismatch")
	})

	t.Run("broken subfields", func(t *testing.T) {
		body := Encode(TagAdditionalData, "05XXbroken") + TagCRC + "04"
		diags := Analyze(body + Checksum(body))
		assert.Contains(t, issues(diags), "bad-subfields")
	})
}
