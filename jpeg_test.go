package pixmap

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestEncodeDecodeJPEG(t *testing.T) {
	ppm, err := ParsePPM("testdata/board-2x2.p6")
	test.That(t, err, test.ShouldBeNil)

	out, err := EncodeJPEG(ppm, 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldBeGreaterThan, 2)
	test.That(t, out[0], test.ShouldEqual, 0xff)
	test.That(t, out[1], test.ShouldEqual, 0xd8)

	back, err := DecodeJPEG(out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.Width(), test.ShouldEqual, 2)
	test.That(t, back.Height(), test.ShouldEqual, 2)
	test.That(t, back.Bitmap().Depth(), test.ShouldEqual, BitDepth8)
}

func TestJPEGRoundTripUniform(t *testing.T) {
	// a flat gray block survives the lossy trip nearly untouched
	samples := make([]uint8, 8*8*3)
	for i := range samples {
		samples[i] = 128
	}
	img, err := NewRGBImage8(8, 8, samples)
	test.That(t, err, test.ShouldBeNil)

	out, err := EncodeJPEG(img, 100)
	test.That(t, err, test.ShouldBeNil)
	back, err := DecodeJPEG(out)
	test.That(t, err, test.ShouldBeNil)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, b := back.PixelAt(x, y)
			test.That(t, float64(r), test.ShouldAlmostEqual, 128, 4)
			test.That(t, float64(g), test.ShouldAlmostEqual, 128, 4)
			test.That(t, float64(b), test.ShouldAlmostEqual, 128, 4)
		}
	}
}

func TestEncodeJPEGQualityClamp(t *testing.T) {
	img, err := NewRGBImage8(1, 1, []uint8{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)

	for _, quality := range []int{-5, 0, 50, 100, 150} {
		out, err := EncodeJPEG(img, quality)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(out), test.ShouldBeGreaterThan, 0)
	}
}

func TestEncodeJPEGNoData(t *testing.T) {
	_, err := EncodeJPEG(&RGBImage{width: 2, height: 2}, 100)
	test.That(t, err, test.ShouldHaveSameTypeAs, &CodecError{})
	test.That(t, err.Error(), test.ShouldContainSubstring, "no bitmap data")
}

func TestDecodeJPEGGarbage(t *testing.T) {
	_, err := DecodeJPEG([]byte("not a jpeg"))
	test.That(t, err, test.ShouldHaveSameTypeAs, &CodecError{})
}

// fakeCodec stands in for the external codec so the boundary can be
// tested without compressing anything.
type fakeCodec struct {
	width, height int
	rgb           []uint8
	decodeErr     error

	encoded    []byte
	encodeErr  error
	gotQuality int
}

func (f *fakeCodec) Decode(data []byte) (int, int, []uint8, error) {
	if f.decodeErr != nil {
		return 0, 0, nil, f.decodeErr
	}
	return f.width, f.height, f.rgb, nil
}

func (f *fakeCodec) Encode(img Image, quality int) ([]byte, error) {
	f.gotQuality = quality
	if f.encodeErr != nil {
		return nil, f.encodeErr
	}
	return f.encoded, nil
}

func TestDecodeJPEGWith(t *testing.T) {
	codec := &fakeCodec{width: 2, height: 1, rgb: []uint8{1, 2, 3, 4, 5, 6}}
	img, err := DecodeJPEGWith(codec, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Width(), test.ShouldEqual, 2)

	r, g, b := img.PixelAt(1, 0)
	test.That(t, r, test.ShouldEqual, 4)
	test.That(t, g, test.ShouldEqual, 5)
	test.That(t, b, test.ShouldEqual, 6)

	// codec failure comes back wrapped
	boom := errors.New("boom")
	_, err = DecodeJPEGWith(&fakeCodec{decodeErr: boom}, nil)
	test.That(t, err, test.ShouldHaveSameTypeAs, &CodecError{})
	test.That(t, errors.Is(err, boom), test.ShouldBeTrue)

	// a buffer that disagrees with the reported dimensions does too
	_, err = DecodeJPEGWith(&fakeCodec{width: 2, height: 1, rgb: []uint8{1, 2, 3, 4}}, nil)
	test.That(t, err, test.ShouldHaveSameTypeAs, &CodecError{})
	var pde *PixelDataError
	test.That(t, errors.As(err, &pde), test.ShouldBeTrue)
}

func TestEncodeJPEGWith(t *testing.T) {
	img, err := NewRGBImage8(1, 1, []uint8{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)

	codec := &fakeCodec{encoded: []byte{0xff, 0xd8}}
	out, err := EncodeJPEGWith(codec, img, 150)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, []byte{0xff, 0xd8})
	test.That(t, codec.gotQuality, test.ShouldEqual, 100)

	_, err = EncodeJPEGWith(codec, img, -3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, codec.gotQuality, test.ShouldEqual, 0)

	boom := errors.New("boom")
	_, err = EncodeJPEGWith(&fakeCodec{encodeErr: boom}, img, 50)
	test.That(t, err, test.ShouldHaveSameTypeAs, &CodecError{})
	test.That(t, errors.Is(err, boom), test.ShouldBeTrue)
}
