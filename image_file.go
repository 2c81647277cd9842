package pixmap

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"go.uber.org/multierr"

	"go.viam.com/pixmap/utils"

	_ "golang.org/x/image/bmp" // register bmp
)

// NewImageFromFile loads and decodes the image at fn, choosing the
// decoder from the file contents rather than the extension.
func NewImageFromFile(fn string) (Image, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	return DecodeImageBytes(data)
}

// DecodeImageBytes decodes encoded image bytes. Pixmaps go through
// this package's own decoder, JPEGs through the codec boundary, and
// any other registered format through the standard library, coerced
// to 8-bit RGB.
func DecodeImageBytes(data []byte) (Image, error) {
	if len(data) >= 2 {
		switch Format(data[:2]) {
		case FormatP3, FormatP6:
			return DecodePPM(data)
		}
		if data[0] == 0xff && data[1] == 0xd8 {
			return DecodeJPEG(data)
		}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newCodecError(err)
	}
	return NewImageFromStdImage(img), nil
}

// WriteImageToFile writes img to fn in the format implied by the file
// extension: .jpg/.jpeg, .png, or .qoi. quality sets the JPEG encode
// quality and has no effect on the lossless formats. A failed write
// leaves nothing behind at fn.
func WriteImageToFile(fn string, img Image, quality int) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
		if err != nil {
			utils.RemoveFileNoError(fn)
		}
	}()

	switch ext := filepath.Ext(fn); ext {
	case ".jpg", ".jpeg":
		out, err := EncodeJPEG(img, quality)
		if err != nil {
			return err
		}
		_, err = f.Write(out)
		return err
	case ".png":
		return png.Encode(f, ToStdImage(img))
	case ".qoi":
		return qoi.Encode(f, ToStdImage(img))
	default:
		return errors.Errorf("do not know how to encode %q", ext)
	}
}
