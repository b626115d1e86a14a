package emvqr

import "fmt"

// Diagnostic describes one anomaly found while walking a payload.
type Diagnostic struct {
	Tag    string `json:"tag"`
	Issue  string `json:"issue"`
	Detail string `json:"detail"`
}

// Analyze performs a best-effort walk of content and records every anomaly
// it can see without ever failing. The output is for operator debugging
// only; validation decisions go through Parse and ChecksumMatches.
func Analyze(content string) []Diagnostic {
	diags := []Diagnostic{}
	if content == "" {
		return append(diags, Diagnostic{Issue: "empty", Detail: "no content to analyze"})
	}

	seen := make(map[string]int)
	crcAt := -1
	pos := 0
	for pos < len(content) {
		if pos+4 > len(content) {
			diags = append(diags, Diagnostic{
				Issue:  "truncated-header",
				Detail: fmt.Sprintf("%d trailing bytes after offset %d cannot form a tag/length pair", len(content)-pos, pos),
			})
			break
		}
		tag := content[pos : pos+2]
		length, err := parseLength(content[pos+2 : pos+4])
		if err != nil {
			diags = append(diags, Diagnostic{
				Tag:    tag,
				Issue:  "bad-length",
				Detail: fmt.Sprintf("length field %q at offset %d is not numeric", content[pos+2:pos+4], pos+2),
			})
			break
		}
		pos += 4
		if pos+length > len(content) {
			diags = append(diags, Diagnostic{
				Tag:    tag,
				Issue:  "overrun",
				Detail: fmt.Sprintf("declares %d bytes, only %d remain", length, len(content)-pos),
			})
			break
		}
		if seen[tag] > 0 {
			diags = append(diags, Diagnostic{
				Tag:    tag,
				Issue:  "duplicate",
				Detail: fmt.Sprintf("occurrence %d; last value wins", seen[tag]+1),
			})
		}
		seen[tag]++

		value := content[pos : pos+length]
		if tag == TagCRC {
			crcAt = pos + length
			if len(value) != 4 {
				diags = append(diags, Diagnostic{Tag: tag, Issue: "bad-crc", Detail: fmt.Sprintf("CRC value has %d chars, want 4", len(value))})
			}
		}
		if tag == TagMerchantAccount || tag == TagAdditionalData {
			if _, err := Parse(value); err != nil {
				diags = append(diags, Diagnostic{Tag: tag, Issue: "bad-subfields", Detail: err.Error()})
			}
		}
		pos += length
	}

	switch {
	case crcAt < 0:
		diags = append(diags, Diagnostic{Tag: TagCRC, Issue: "missing-crc", Detail: "no CRC field at a valid TLV boundary"})
	case crcAt < len(content):
		diags = append(diags, Diagnostic{Tag: TagCRC, Issue: "crc-not-last", Detail: fmt.Sprintf("%d bytes follow the CRC field", len(content)-crcAt)})
	default:
		if !ChecksumMatches(content) {
			diags = append(diags, Diagnostic{Tag: TagCRC, Issue: "crc-mismatch", Detail: "recomputed checksum differs from presented value"})
		}
	}
	return diags
}
