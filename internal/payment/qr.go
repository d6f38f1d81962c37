package payment

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PixelsPerModule is the size of one QR module in the generated PNG.
const PixelsPerModule = 20

// EncodeQR renders content as a PNG QR code at error correction level M.
func EncodeQR(content string) ([]byte, error) {
	// a negative size selects a fixed number of pixels per module
	png, err := qrcode.Encode(content, qrcode.Medium, -PixelsPerModule)
	if err != nil {
		return nil, fmt.Errorf("EncodeQR: %w", err)
	}
	return png, nil
}
