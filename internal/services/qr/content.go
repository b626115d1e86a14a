package qr

import (
	"fmt"
	"strconv"
	"strings"

	"ezpay/internal/emvqr"
	domainErrors "ezpay/internal/errors"
	"ezpay/internal/models"
)

// InputKind distinguishes raw TLV text from a data-URI wrapper once, at
// the boundary, instead of string sniffing inside the codec.
type InputKind int

const (
	InputRaw InputKind = iota
	InputDataURI
)

type Input struct {
	Kind  InputKind
	Value string
}

// ClassifyInput trims incidental whitespace and wrapping quotes a client
// may introduce when copying content, then tags the result.
func ClassifyInput(raw string) Input {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "data:") {
		return Input{Kind: InputDataURI, Value: s}
	}
	return Input{Kind: InputRaw, Value: s}
}

// Sanitize cleans up pasted content. Raw input is reduced to the EMV TLV
// substring when one is embedded in surrounding text; data URIs pass
// through unchanged. Decoding a scanned barcode image is a separate
// collaborator, not this subsystem.
func Sanitize(raw string) string {
	in := ClassifyInput(raw)
	if in.Kind == InputDataURI {
		return in.Value
	}
	return extractPayload(in.Value)
}

// extractPayload locates the EMV payload inside s: it starts at the
// "000201" format header and ends at the CRC field boundary. Returns s
// unchanged when no header is found.
func extractPayload(s string) string {
	start := strings.Index(s, "000201")
	if start < 0 {
		return s
	}
	pos := start
	for pos+4 <= len(s) {
		tag := s[pos : pos+2]
		length, err := strconv.Atoi(s[pos+2 : pos+4])
		if err != nil || s[pos+2] < '0' || s[pos+2] > '9' || s[pos+3] < '0' || s[pos+3] > '9' {
			break
		}
		pos += 4
		if pos+length > len(s) {
			break
		}
		if tag == emvqr.TagCRC {
			return s[start : pos+length]
		}
		pos += length
	}
	return s[start:]
}

// ExtractTransactionID pulls the reference sub-field out of the
// additional data template. It deliberately checks neither CRC nor
// signature; extraction has to work for diagnostics too.
func ExtractTransactionID(content string) (string, error) {
	t, err := emvqr.Parse(content)
	if err != nil {
		return "", domainErrors.ErrNoTransactionID
	}
	add, ok := t.Get(emvqr.TagAdditionalData)
	if !ok {
		return "", domainErrors.ErrNoTransactionID
	}
	sub, err := emvqr.Parse(add)
	if err != nil {
		return "", domainErrors.ErrNoTransactionID
	}
	id, ok := sub.Get(emvqr.SubTagReference)
	if !ok || id == "" {
		return "", domainErrors.ErrNoTransactionID
	}
	return id, nil
}

// CheckContent runs the structural checks that precede any store access:
// strict TLV parse, required tags, and the CRC comparison. It returns
// ErrMalformedTLV when the content is not even a candidate payload and
// ErrChecksumMismatch when it is one but fails integrity.
func CheckContent(content string) error {
	t, err := emvqr.Parse(content)
	if err != nil {
		return domainErrors.ErrMalformedTLV
	}
	for _, tag := range []string{
		emvqr.TagPayloadFormat,
		emvqr.TagInitiationMethod,
		emvqr.TagCurrency,
		emvqr.TagAmount,
		emvqr.TagCountryCode,
		emvqr.TagAdditionalData,
	} {
		if !t.Has(tag) {
			return domainErrors.ErrMalformedTLV
		}
	}
	if !emvqr.ChecksumMatches(content) {
		return domainErrors.ErrChecksumMismatch
	}
	return nil
}

// BuildContent encodes the full payment payload for a transaction. The
// output is deterministic for identical stored fields, so the image and
// debug endpoints can regenerate it without persisting the string.
func (s *Service) BuildContent(tx *models.QrTransaction) (string, error) {
	bin, ok := bankBINs[tx.BankCode]
	if !ok {
		return "", fmt.Errorf("unknown bank code %q", tx.BankCode)
	}
	profile := profileFor(tx.BankCode)

	var mai strings.Builder
	mai.WriteString(emvqr.Encode(emvqr.SubTagGUID, profile.guid))
	if profile.nested {
		nested := emvqr.Encode(emvqr.SubTagBankBIN, bin) + emvqr.Encode(emvqr.SubTagBankAccount, tx.BankAccount)
		mai.WriteString(emvqr.Encode(emvqr.SubTagBankInfo, nested))
	} else {
		mai.WriteString(emvqr.Encode(emvqr.SubTagBankInfo, tx.BankAccount))
	}
	mai.WriteString(emvqr.Encode(emvqr.SubTagServiceCode, "QRIBFTTA"))

	var payload strings.Builder
	payload.WriteString(emvqr.Encode(emvqr.TagPayloadFormat, "01"))
	payload.WriteString(emvqr.Encode(emvqr.TagInitiationMethod, "12"))
	payload.WriteString(emvqr.Encode(emvqr.TagMerchantAccount, mai.String()))
	payload.WriteString(emvqr.Encode(emvqr.TagCurrency, "704"))
	payload.WriteString(emvqr.Encode(emvqr.TagAmount, tx.Amount))
	payload.WriteString(emvqr.Encode(emvqr.TagCountryCode, "VN"))
	payload.WriteString(emvqr.Encode(emvqr.TagMerchantName, s.cfg.MerchantName))
	payload.WriteString(emvqr.Encode(emvqr.TagMerchantCity, s.cfg.MerchantCity))

	add, err := s.buildAdditionalData(tx)
	if err != nil {
		return "", err
	}
	payload.WriteString(emvqr.Encode(emvqr.TagAdditionalData, add))

	crc := emvqr.Checksum(payload.String() + emvqr.TagCRC + "04")
	payload.WriteString(emvqr.Encode(emvqr.TagCRC, crc))
	return payload.String(), nil
}

// buildAdditionalData assembles the 62 template: reference, expiry,
// message snippet, signature and key id. The message is trimmed so the
// template never exceeds the two-digit TLV length limit; the store keeps
// the full text for the metadata endpoint.
func (s *Service) buildAdditionalData(tx *models.QrTransaction) (string, error) {
	sig, err := s.signer.Sign(tx.TransactionID, tx.Amount, tx.CreatedAt, tx.ExpireAt, tx.SignatureKeyID)
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}
	expire := strconv.FormatInt(tx.ExpireAt.Unix(), 10)

	fixed := 4 + len(tx.TransactionID) +
		4 + len(expire) +
		4 + len(sig) +
		4 + len(tx.SignatureKeyID)
	if fixed > emvqr.MaxValueLen {
		return "", fmt.Errorf("additional data needs %d bytes, limit is %d", fixed, emvqr.MaxValueLen)
	}

	var add strings.Builder
	add.WriteString(emvqr.Encode(emvqr.SubTagReference, tx.TransactionID))
	add.WriteString(emvqr.Encode(emvqr.SubTagExpiry, expire))
	if room := emvqr.MaxValueLen - fixed - 4; room > 0 && tx.Message != "" {
		snippet := tx.Message
		if len(snippet) > room {
			snippet = snippet[:room]
		}
		add.WriteString(emvqr.Encode(emvqr.SubTagMessage, snippet))
	}
	add.WriteString(emvqr.Encode(emvqr.SubTagSignature, sig))
	add.WriteString(emvqr.Encode(emvqr.SubTagSignatureKey, tx.SignatureKeyID))
	return add.String(), nil
}
