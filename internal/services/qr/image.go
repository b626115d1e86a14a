package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// RenderPNG turns a content string into a scannable PNG. Pure function of
// the string; no state is kept about rendered images.
func RenderPNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("encode QR image: %w", err)
	}
	return png, nil
}
