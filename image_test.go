package pixmap

import (
	"image"
	"image/color"
	"math"
	"testing"

	"go.viam.com/test"
)

func TestNewRGBImage8(t *testing.T) {
	img, err := NewRGBImage8(2, 1, []uint8{1, 2, 3, 4, 5, 6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Width(), test.ShouldEqual, 2)
	test.That(t, img.Height(), test.ShouldEqual, 1)

	r, g, b := img.PixelAt(1, 0)
	test.That(t, r, test.ShouldEqual, 4)
	test.That(t, g, test.ShouldEqual, 5)
	test.That(t, b, test.ShouldEqual, 6)

	_, err = NewRGBImage8(2, 1, []uint8{1, 2, 3, 4, 5})
	test.That(t, err, test.ShouldHaveSameTypeAs, &PixelDataError{})
	test.That(t, err.Error(), test.ShouldContainSubstring, "have 5 samples")
}

func TestNewRGBImage16(t *testing.T) {
	img, err := NewRGBImage16(1, 1, []uint16{300, 0, 65535})
	test.That(t, err, test.ShouldBeNil)

	r, g, b := img.PixelAt(0, 0)
	test.That(t, r, test.ShouldEqual, 300)
	test.That(t, g, test.ShouldEqual, 0)
	test.That(t, b, test.ShouldEqual, 65535)

	_, err = NewRGBImage16(1, 2, []uint16{300})
	test.That(t, err, test.ShouldHaveSameTypeAs, &PixelDataError{})
}

func TestNewRGBImageBadDimensions(t *testing.T) {
	// a dimension product that overflows can never match a real slice
	_, err := NewRGBImage8(math.MaxInt/3, 2, []uint8{1, 2, 3})
	test.That(t, err, test.ShouldHaveSameTypeAs, &PixelDataError{})
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot size")

	_, err = NewRGBImage16(2, math.MaxInt/3, []uint16{1, 2, 3})
	test.That(t, err, test.ShouldHaveSameTypeAs, &PixelDataError{})

	// negative dimensions are rejected even when the product matches
	_, err = NewRGBImage8(-1, -1, []uint8{1, 2, 3})
	test.That(t, err, test.ShouldHaveSameTypeAs, &PixelDataError{})
}

func TestPixelAtBounds(t *testing.T) {
	img, err := DecodePPM([]byte("P3\n2 2\n255\n255 0 0  0 255 0  0 0 255  255 255 255\n"))
	test.That(t, err, test.ShouldBeNil)

	for _, xy := range [][2]int{
		{2, 2}, {1, 2}, {2, 1}, {5, 0}, {0, 5}, {-1, 0}, {0, -1},
	} {
		r, g, b := img.PixelAt(xy[0], xy[1])
		test.That(t, r, test.ShouldEqual, 0)
		test.That(t, g, test.ShouldEqual, 0)
		test.That(t, b, test.ShouldEqual, 0)
	}

	test.That(t, img.In(0, 0), test.ShouldBeTrue)
	test.That(t, img.In(1, 1), test.ShouldBeTrue)
	test.That(t, img.In(2, 1), test.ShouldBeFalse)
	test.That(t, img.In(-1, 0), test.ShouldBeFalse)
}

func TestNewImageFromStdImage(t *testing.T) {
	// a source with a non-zero origin keeps its pixels
	src := image.NewRGBA(image.Rect(1, 1, 3, 3))
	src.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetRGBA(2, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	img := NewImageFromStdImage(src)
	test.That(t, img.Width(), test.ShouldEqual, 2)
	test.That(t, img.Height(), test.ShouldEqual, 2)

	r, g, b := img.PixelAt(0, 0)
	test.That(t, r, test.ShouldEqual, 10)
	test.That(t, g, test.ShouldEqual, 20)
	test.That(t, b, test.ShouldEqual, 30)

	r, g, b = img.PixelAt(1, 1)
	test.That(t, r, test.ShouldEqual, 200)
	test.That(t, g, test.ShouldEqual, 100)
	test.That(t, b, test.ShouldEqual, 50)
}

func TestRGBImageAsStdImage(t *testing.T) {
	img8, err := NewRGBImage8(1, 1, []uint8{10, 20, 30})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img8.ColorModel(), test.ShouldEqual, color.RGBAModel)
	test.That(t, img8.Bounds(), test.ShouldResemble, image.Rect(0, 0, 1, 1))
	test.That(t, img8.At(0, 0), test.ShouldResemble, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})

	img16, err := NewRGBImage16(1, 1, []uint16{1000, 0, 65535})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img16.ColorModel(), test.ShouldEqual, color.RGBA64Model)
	test.That(t, img16.At(0, 0), test.ShouldResemble, color.RGBA64{R: 1000, G: 0, B: 65535, A: 0xffff})
}

// bareImage implements Image without also being an image.Image, the
// shape an outside codec's result might have.
type bareImage struct {
	width, height int
	bitmap        *Bitmap
}

func (b *bareImage) Width() int      { return b.width }
func (b *bareImage) Height() int     { return b.height }
func (b *bareImage) Bitmap() *Bitmap { return b.bitmap }

func (b *bareImage) PixelAt(x, y int) (uint16, uint16, uint16) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, 0, 0
	}
	k := ((y * b.width) + x) * 3
	return b.bitmap.Sample(k), b.bitmap.Sample(k + 1), b.bitmap.Sample(k + 2)
}

func TestToStdImage(t *testing.T) {
	ri, err := NewRGBImage8(1, 1, []uint8{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ToStdImage(ri), test.ShouldEqual, ri)

	bare := &bareImage{width: 1, height: 1, bitmap: NewBitmap8([]uint8{10, 20, 30})}
	std := ToStdImage(bare)
	test.That(t, std.Bounds(), test.ShouldResemble, image.Rect(0, 0, 1, 1))
	test.That(t, std.ColorModel(), test.ShouldEqual, color.RGBAModel)
	test.That(t, std.At(0, 0), test.ShouldResemble, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})

	bare16 := &bareImage{width: 1, height: 1, bitmap: NewBitmap16([]uint16{300, 0, 65535})}
	std16 := ToStdImage(bare16)
	test.That(t, std16.ColorModel(), test.ShouldEqual, color.RGBA64Model)
	test.That(t, std16.At(0, 0), test.ShouldResemble, color.RGBA64{R: 300, G: 0, B: 65535, A: 0xffff})
}
