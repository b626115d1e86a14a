package emvqr

import (
	"fmt"
	"strings"
)

// Checksum computes CRC-16/CCITT-FALSE (polynomial 0x1021, initial value
// 0xFFFF, no final XOR) over every byte of s and renders it as four
// uppercase hex digits, the format tag 63 carries.
func Checksum(s string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

// ChecksumMatches recomputes the CRC over content up to and including the
// CRC tag+length header and compares it, case-insensitively, with the
// presented value. A missing or misplaced CRC field never matches.
func ChecksumMatches(content string) bool {
	idx := FindTag(content, TagCRC)
	if idx < 0 || idx+4 > len(content) {
		return false
	}
	t, err := Parse(content)
	if err != nil {
		return false
	}
	presented, ok := t.Get(TagCRC)
	if !ok || len(presented) != 4 {
		return false
	}
	return strings.EqualFold(Checksum(content[:idx+4]), presented)
}
