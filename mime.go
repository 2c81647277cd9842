package pixmap

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MimeTypePPM covers both pixmap variants.
	MimeTypePPM = "image/x-portable-pixmap"

	// MimeTypeJPEG is regular jpgs.
	MimeTypeJPEG = "image/jpeg"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"

	// MimeTypeQOI is for .qoi "Quite OK Image" for lossless, fast encoding/decoding.
	MimeTypeQOI = "image/qoi"
)

// DetectMIMEType guesses the MIME type of encoded image bytes. Pixmap
// and QOI magics are checked first since the standard sniffer does not
// know them; everything else goes through http.DetectContentType.
func DetectMIMEType(data []byte) (string, error) {
	if len(data) >= 2 {
		switch Format(data[:2]) {
		case FormatP3, FormatP6:
			return MimeTypePPM, nil
		}
	}
	if len(data) >= 4 && string(data[:4]) == "qoif" {
		return MimeTypeQOI, nil
	}
	detected := http.DetectContentType(data)
	if !strings.Contains(detected, "image") {
		return "", errors.Errorf("cannot decode image from MIME type '%s'", detected)
	}
	return detected, nil
}
