package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// EncodePNG renders the scan URL as a printable PNG. Size is the edge
// length in pixels; sizes outside 64..2048 clamp to a sane default.
func EncodePNG(scanURL string, size int) ([]byte, error) {
	if size < 64 || size > 2048 {
		size = 512
	}

	png, err := qrcode.Encode(scanURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// EncodeASCII renders the code for terminal preview in the dashboard.
func EncodeASCII(scanURL string) (string, error) {
	qr, err := qrcode.New(scanURL, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	bitmap := qr.Bitmap()

	var sb strings.Builder
	for i := 0; i < len(bitmap); i++ {
		for j := 0; j < len(bitmap[i]); j++ {
			if bitmap[i][j] {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
