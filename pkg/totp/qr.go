package totp

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCode renders a provisioning URI as a PNG image of the given pixel size,
// suitable for scanning during two-factor enrollment.
func QRCode(provisioningURI string, size int) ([]byte, error) {
	if provisioningURI == "" {
		return nil, ErrMissingProvisioningURI
	}

	png, err := qrcode.Encode(provisioningURI, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrQRCodeGenerationFailed, err)
	}
	return png, nil
}
