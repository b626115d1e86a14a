// Package emvqr implements the EMV-QR style tag-length-value encoding used
// by the payment payload: 2-character ASCII tags followed by a 2-digit
// decimal length and the raw value. Composite fields (merchant account
// information, additional data) are TLV strings themselves and are parsed
// by calling Parse again on the field value.
package emvqr

import (
	"errors"
	"fmt"
)

// Top-level tags, in the order the builder emits them.
const (
	TagPayloadFormat    = "00"
	TagInitiationMethod = "01"
	TagMerchantAccount  = "38"
	TagCurrency         = "53"
	TagAmount           = "54"
	TagCountryCode      = "58"
	TagMerchantName     = "59"
	TagMerchantCity     = "60"
	TagAdditionalData   = "62"
	TagCRC              = "63"
)

// Sub-tags of the merchant account information template (38).
const (
	SubTagGUID        = "00"
	SubTagBankInfo    = "01"
	SubTagServiceCode = "02"
	SubTagBankBIN     = "00" // inside the nested bank info template
	SubTagBankAccount = "01"
)

// Sub-tags of the additional data template (62).
const (
	SubTagReference    = "05"
	SubTagExpiry       = "07"
	SubTagMessage      = "08"
	SubTagSignature    = "09"
	SubTagSignatureKey = "10"
)

// MaxValueLen is the largest value a two-digit length header can describe.
const MaxValueLen = 99

var ErrMalformed = errors.New("malformed TLV")

// TLV holds the fields of one template level in parse order. Duplicate tags
// keep the last value; Tags still reports the first occurrence position.
type TLV struct {
	tags   []string
	values map[string]string
}

func (t *TLV) Get(tag string) (string, bool) {
	v, ok := t.values[tag]
	return v, ok
}

func (t *TLV) Has(tag string) bool {
	_, ok := t.values[tag]
	return ok
}

// Tags returns the tag codes in the order they first appeared.
func (t *TLV) Tags() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

func (t *TLV) Len() int { return len(t.tags) }

// Parse decodes one level of TLV fields. It is strict: a non-numeric
// length, a length running past the end of the buffer, or a truncated
// tag/length header all fail with ErrMalformed.
func Parse(content string) (*TLV, error) {
	t := &TLV{values: make(map[string]string)}
	pos := 0
	for pos < len(content) {
		if pos+4 > len(content) {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformed, pos)
		}
		tag := content[pos : pos+2]
		length, err := parseLength(content[pos+2 : pos+4])
		if err != nil {
			return nil, fmt.Errorf("%w: tag %s has non-numeric length %q", ErrMalformed, tag, content[pos+2:pos+4])
		}
		pos += 4
		if pos+length > len(content) {
			return nil, fmt.Errorf("%w: tag %s declares %d bytes but only %d remain", ErrMalformed, tag, length, len(content)-pos)
		}
		if _, dup := t.values[tag]; !dup {
			t.tags = append(t.tags, tag)
		}
		t.values[tag] = content[pos : pos+length]
		pos += length
	}
	return t, nil
}

// Encode produces tag + zero-padded length + value. Values longer than
// MaxValueLen bytes are truncated; callers that care trim beforehand.
func Encode(tag, value string) string {
	if len(value) > MaxValueLen {
		value = value[:MaxValueLen]
	}
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

// FindTag walks the TLV structure and returns the byte offset of the given
// tag's header, or -1 when absent or the structure breaks before it.
func FindTag(content, tag string) int {
	pos := 0
	for pos+4 <= len(content) {
		length, err := parseLength(content[pos+2 : pos+4])
		if err != nil {
			return -1
		}
		if content[pos:pos+2] == tag {
			return pos
		}
		pos += 4 + length
	}
	return -1
}

func parseLength(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, errors.New("length is not two decimal digits")
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}
