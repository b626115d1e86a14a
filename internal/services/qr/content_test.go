package qr

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"ezpay/internal/emvqr"
	domainErrors "ezpay/internal/errors"
	"ezpay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTx() *models.QrTransaction {
	created := time.Unix(1700000000, 0)
	return &models.QrTransaction{
		TransactionID:  "3f8a1c6e-9d2b-4f07-a1e5-6c1b2d3e4f50",
		BankCode:       "vcb",
		BankAccount:    "0011002233445",
		Amount:         "50000",
		Message:        "order #42",
		CreatedAt:      created,
		ExpireAt:       created.Add(5 * time.Minute),
		SignatureKeyID: "local-1",
	}
}

func TestBuildContent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil)
	tx := fixedTx()

	content, err := svc.BuildContent(tx)
	require.NoError(t, err)
	require.NoError(t, CheckContent(content))

	top, err := emvqr.Parse(content)
	require.NoError(t, err)

	get := func(tlv *emvqr.TLV, tag string) string {
		v, ok := tlv.Get(tag)
		require.True(t, ok, "tag %s missing", tag)
		return v
	}

	assert.Equal(t, "01", get(top, emvqr.TagPayloadFormat))
	assert.Equal(t, "12", get(top, emvqr.TagInitiationMethod))
	assert.Equal(t, "704", get(top, emvqr.TagCurrency))
	assert.Equal(t, "50000", get(top, emvqr.TagAmount))
	assert.Equal(t, "VN", get(top, emvqr.TagCountryCode))
	assert.Equal(t, "Ezami Shop", get(top, emvqr.TagMerchantName))
	assert.Equal(t, "Hanoi", get(top, emvqr.TagMerchantCity))

	t.Run("merchant account template", func(t *testing.T) {
		mai, err := emvqr.Parse(get(top, emvqr.TagMerchantAccount))
		require.NoError(t, err)
		assert.Equal(t, "A000000727", get(mai, emvqr.SubTagGUID))
		assert.Equal(t, "QRIBFTTA", get(mai, emvqr.SubTagServiceCode))

		bank, err := emvqr.Parse(get(mai, emvqr.SubTagBankInfo))
		require.NoError(t, err)
		assert.Equal(t, "970436", get(bank, emvqr.SubTagBankBIN))
		assert.Equal(t, "0011002233445", get(bank, emvqr.SubTagBankAccount))
	})

	t.Run("additional data template", func(t *testing.T) {
		add, err := emvqr.Parse(get(top, emvqr.TagAdditionalData))
		require.NoError(t, err)
		assert.Equal(t, tx.TransactionID, get(add, emvqr.SubTagReference))
		assert.Equal(t, strconv.FormatInt(tx.ExpireAt.Unix(), 10), get(add, emvqr.SubTagExpiry))
		assert.Equal(t, "order #42", get(add, emvqr.SubTagMessage))
		assert.Equal(t, "local-1", get(add, emvqr.SubTagSignatureKey))

		sig := get(add, emvqr.SubTagSignature)
		assert.NoError(t, svc.signer.Verify(sig, tx.TransactionID, tx.Amount, tx.CreatedAt, tx.ExpireAt, tx.SignatureKeyID))
	})

	t.Run("CRC is the final field", func(t *testing.T) {
		idx := emvqr.FindTag(content, emvqr.TagCRC)
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, len(content), idx+8)
	})

	t.Run("deterministic for identical fields", func(t *testing.T) {
		again, err := svc.BuildContent(fixedTx())
		require.NoError(t, err)
		assert.Equal(t, content, again)
	})

	t.Run("unknown bank code", func(t *testing.T) {
		bad := fixedTx()
		bad.BankCode = "notabank"
		_, err := svc.BuildContent(bad)
		assert.Error(t, err)
	})

	t.Run("long message is trimmed into the payload, not rejected", func(t *testing.T) {
		long := fixedTx()
		long.Message = strings.Repeat("m", 99)
		c, err := svc.BuildContent(long)
		require.NoError(t, err)
		require.NoError(t, CheckContent(c))

		top, err := emvqr.Parse(c)
		require.NoError(t, err)
		addRaw, _ := top.Get(emvqr.TagAdditionalData)
		assert.LessOrEqual(t, len(addRaw), emvqr.MaxValueLen)

		add, err := emvqr.Parse(addRaw)
		require.NoError(t, err)
		snippet, ok := add.Get(emvqr.SubTagMessage)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(long.Message, snippet))
		assert.Less(t, len(snippet), len(long.Message))

		// signature and key id survive the trim
		assert.True(t, add.Has(emvqr.SubTagSignature))
		assert.True(t, add.Has(emvqr.SubTagSignatureKey))
	})
}

func TestExtractTransactionID(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil)
	tx := fixedTx()
	content, err := svc.BuildContent(tx)
	require.NoError(t, err)

	t.Run("from valid content", func(t *testing.T) {
		id, err := ExtractTransactionID(content)
		require.NoError(t, err)
		assert.Equal(t, tx.TransactionID, id)
	})

	t.Run("works without a valid CRC", func(t *testing.T) {
		// extraction is also used for diagnostics, before integrity checks
		tampered := content[:len(content)-4] + "0000"
		id, err := ExtractTransactionID(tampered)
		require.NoError(t, err)
		assert.Equal(t, tx.TransactionID, id)
	})

	failures := []struct {
		name    string
		content string
	}{
		{"garbage", "not a payload"},
		{"no additional data", emvqr.Encode("00", "01")},
		{"broken additional data", emvqr.Encode(emvqr.TagAdditionalData, "05XX")},
		{"missing reference", emvqr.Encode(emvqr.TagAdditionalData, emvqr.Encode(emvqr.SubTagExpiry, "123"))},
		{"empty reference", emvqr.Encode(emvqr.TagAdditionalData, emvqr.Encode(emvqr.SubTagReference, ""))},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractTransactionID(tc.content)
			assert.ErrorIs(t, err, domainErrors.ErrNoTransactionID)
		})
	}
}

func TestSanitize(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil)
	content, err := svc.BuildContent(fixedTx())
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean content passes through", content, content},
		{"surrounding whitespace", "  \t" + content + "\n", content},
		{"wrapping quotes", `"` + content + `"`, content},
		{"embedded in scanner noise", "scanned: " + content + " [ok]", content},
		{"data URI passes through", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"no payload marker", "hello world", "hello world"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestClassifyInput(t *testing.T) {
	assert.Equal(t, InputDataURI, ClassifyInput(" data:image/png;base64,AAAA").Kind)
	assert.Equal(t, InputRaw, ClassifyInput("000201").Kind)
	assert.Equal(t, InputRaw, ClassifyInput(`"000201"`).Kind)
	assert.Equal(t, "000201", ClassifyInput(`"000201"`).Value)
}

func TestCheckContent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil)
	content, err := svc.BuildContent(fixedTx())
	require.NoError(t, err)

	t.Run("valid content", func(t *testing.T) {
		assert.NoError(t, CheckContent(content))
	})

	t.Run("unparseable content", func(t *testing.T) {
		assert.ErrorIs(t, CheckContent("garbage"), domainErrors.ErrMalformedTLV)
	})

	t.Run("missing required tag", func(t *testing.T) {
		body := emvqr.Encode("00", "01") + emvqr.TagCRC + "04"
		assert.ErrorIs(t, CheckContent(body+emvqr.Checksum(body)), domainErrors.ErrMalformedTLV)
	})

	t.Run("flipped byte fails the checksum", func(t *testing.T) {
		tampered := strings.Replace(content, "540550000", "540550001", 1)
		require.NotEqual(t, content, tampered)
		assert.ErrorIs(t, CheckContent(tampered), domainErrors.ErrChecksumMismatch)
	})

	t.Run("stripped CRC fails the checksum", func(t *testing.T) {
		assert.ErrorIs(t, CheckContent(content[:len(content)-8]), domainErrors.ErrChecksumMismatch)
	})
}
