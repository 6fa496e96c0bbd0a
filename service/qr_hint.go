package service

import (
	"image"
	"net/url"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// DecodeUPIAmount looks for a UPI payment QR on a bill image and returns the
// transaction amount from its "am" parameter. Indian clinics commonly print
// these next to the payable total, which makes the QR a reliable amount hint
// even when the printed digits OCR badly.
func DecodeUPIAmount(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	reader := qrcode.NewQRCodeReader()
	result, err := reader.Decode(bmp, nil)
	if err != nil {
		return "", false
	}

	return ParseUPIAmount(result.GetText())
}

// ParseUPIAmount extracts the amount parameter from a upi:// payment URI
func ParseUPIAmount(content string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(content), "upi://") {
		return "", false
	}

	u, err := url.Parse(content)
	if err != nil {
		return "", false
	}

	amount := strings.TrimSpace(u.Query().Get("am"))
	if amount == "" {
		return "", false
	}
	for i := 0; i < len(amount); i++ {
		if (amount[i] < '0' || amount[i] > '9') && amount[i] != '.' {
			return "", false
		}
	}
	return amount, true
}
