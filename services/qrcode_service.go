// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode; injected so tests can stub encoding.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateHotelQRCode renders a PNG QR code deep-linking to a hotel, so
// field workers can jump straight to its upload page.
func GenerateHotelQRCode(hotelID uint, size int, encode QRCodeEncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid size: must be positive")
	}
	if encode == nil {
		encode = qrcode.Encode
	}

	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}

	link := fmt.Sprintf("%s/hotels/%d", applicationURL, hotelID)
	png, err := encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
