package pixmap

import (
	"bytes"
	"image/jpeg"

	"github.com/pkg/errors"
)

// Codec is the narrow contract with the external image codec: decode
// compressed bytes into an 8-bit interleaved RGB buffer, encode an
// image at a quality into compressed bytes. The package default is
// backed by image/jpeg; tests substitute their own.
type Codec interface {
	Decode(data []byte) (width, height int, rgb []uint8, err error)
	Encode(img Image, quality int) ([]byte, error)
}

var defaultCodec Codec = stdCodec{}

// A JPEG is a decoded JPEG image, coerced to 8-bit RGB whatever the
// source color mode was.
type JPEG struct {
	RGBImage
}

var _ Image = (*JPEG)(nil)

// DecodeJPEG decodes compressed JPEG bytes with the default codec.
func DecodeJPEG(data []byte) (*JPEG, error) {
	return DecodeJPEGWith(defaultCodec, data)
}

// DecodeJPEGWith decodes compressed bytes through an explicit codec.
// Codec failures, including a buffer that disagrees with the reported
// dimensions, come back as a CodecError.
func DecodeJPEGWith(codec Codec, data []byte) (*JPEG, error) {
	width, height, rgb, err := codec.Decode(data)
	if err != nil {
		return nil, newCodecError(err)
	}
	ri, err := NewRGBImage8(width, height, rgb)
	if err != nil {
		return nil, newCodecError(err)
	}
	return &JPEG{RGBImage: *ri}, nil
}

// EncodeJPEG encodes img with the default codec. Quality is clamped
// to [0,100].
func EncodeJPEG(img Image, quality int) ([]byte, error) {
	return EncodeJPEGWith(defaultCodec, img, quality)
}

// EncodeJPEGWith encodes img through an explicit codec.
func EncodeJPEGWith(codec Codec, img Image, quality int) ([]byte, error) {
	if !img.Bitmap().HasData() {
		return nil, newCodecError(errors.New("image has no bitmap data"))
	}
	if quality < 0 {
		quality = 0
	} else if quality > 100 {
		quality = 100
	}
	out, err := codec.Encode(img, quality)
	if err != nil {
		return nil, newCodecError(err)
	}
	return out, nil
}

// stdCodec adapts image/jpeg to the Codec contract.
type stdCodec struct{}

func (stdCodec) Decode(data []byte) (int, int, []uint8, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, err
	}
	ri := NewImageFromStdImage(img)
	return ri.Width(), ri.Height(), ri.Bitmap().Samples8(), nil
}

func (stdCodec) Encode(img Image, quality int) ([]byte, error) {
	// image/jpeg's scale starts at 1
	if quality < 1 {
		quality = 1
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, ToStdImage(img), &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
