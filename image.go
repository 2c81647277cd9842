package pixmap

import (
	"image"
	"image/color"
	"math"
)

// Image is the contract every decoded image satisfies: fixed
// dimensions, access to the backing bitmap, and per-pixel sampling.
// PixelAt returns each channel widened to 16 bits; 8-bit sources keep
// their 0-255 numeric values and are never rescaled. Coordinates
// outside the image return (0,0,0) rather than failing.
type Image interface {
	Width() int
	Height() int
	Bitmap() *Bitmap
	PixelAt(x, y int) (r, g, b uint16)
}

// An RGBImage is a plain raster backed by a Bitmap. It is the common
// form for every decode result and also satisfies image.Image so the
// standard encoders can consume it directly.
type RGBImage struct {
	width, height int
	bitmap        *Bitmap
}

// samplesWanted is the sample count a width by height RGB image must
// hold. Dimensions that are negative, or whose pixel count would
// overflow an int, cannot describe any real buffer and error out.
func samplesWanted(width, height int) (int, error) {
	if width < 0 || height < 0 || (width > 0 && height > math.MaxInt/3/width) {
		return 0, newPixelDataError("cannot size a %dx%d pixel buffer", width, height)
	}
	return width * height * 3, nil
}

// NewRGBImage8 builds an image over 8-bit interleaved RGB samples.
// The sample count must be exactly width*height*3.
func NewRGBImage8(width, height int, samples []uint8) (*RGBImage, error) {
	want, err := samplesWanted(width, height)
	if err != nil {
		return nil, err
	}
	if len(samples) != want {
		return nil, newPixelDataError("have %d samples, want %d for %dx%d", len(samples), want, width, height)
	}
	return &RGBImage{width: width, height: height, bitmap: NewBitmap8(samples)}, nil
}

// NewRGBImage16 builds an image over 16-bit interleaved RGB samples.
// The sample count must be exactly width*height*3.
func NewRGBImage16(width, height int, samples []uint16) (*RGBImage, error) {
	want, err := samplesWanted(width, height)
	if err != nil {
		return nil, err
	}
	if len(samples) != want {
		return nil, newPixelDataError("have %d samples, want %d for %dx%d", len(samples), want, width, height)
	}
	return &RGBImage{width: width, height: height, bitmap: NewBitmap16(samples)}, nil
}

// NewImageFromStdImage coerces any standard library image into an
// 8-bit RGBImage, dropping alpha.
func NewImageFromStdImage(img image.Image) *RGBImage {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	samples := make([]uint8, width*height*3)
	k := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			samples[k] = uint8(r >> 8)
			samples[k+1] = uint8(g >> 8)
			samples[k+2] = uint8(b >> 8)
			k += 3
		}
	}
	return &RGBImage{width: width, height: height, bitmap: NewBitmap8(samples)}
}

// Width returns the image width in pixels.
func (ri *RGBImage) Width() int {
	return ri.width
}

// Height returns the image height in pixels.
func (ri *RGBImage) Height() int {
	return ri.height
}

// Bitmap returns the backing sample store. Callers treat it as
// read-only.
func (ri *RGBImage) Bitmap() *Bitmap {
	return ri.bitmap
}

// In reports whether (x,y) lies inside the image.
func (ri *RGBImage) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < ri.width && y < ri.height
}

func (ri *RGBImage) kxy(x, y int) int {
	return ((y * ri.width) + x) * 3
}

// PixelAt returns the channel values at (x,y) widened to 16 bits, or
// (0,0,0) when the coordinate is out of range.
func (ri *RGBImage) PixelAt(x, y int) (uint16, uint16, uint16) {
	if !ri.In(x, y) || !ri.bitmap.HasData() {
		return 0, 0, 0
	}
	k := ri.kxy(x, y)
	return ri.bitmap.Sample(k), ri.bitmap.Sample(k + 1), ri.bitmap.Sample(k + 2)
}

// ColorModel implements image.Image.
func (ri *RGBImage) ColorModel() color.Model {
	if ri.bitmap.Depth() == BitDepth16 {
		return color.RGBA64Model
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (ri *RGBImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, ri.width, ri.height)
}

// At implements image.Image.
func (ri *RGBImage) At(x, y int) color.Color {
	r, g, b := ri.PixelAt(x, y)
	if ri.bitmap.Depth() == BitDepth16 {
		return color.RGBA64{R: r, G: g, B: b, A: 0xffff}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

// ToStdImage returns a standard library view of img. Images from this
// package already satisfy image.Image; anything else gets a thin
// read-only wrapper around PixelAt.
func ToStdImage(img Image) image.Image {
	if std, ok := img.(image.Image); ok {
		return std
	}
	return &stdImage{img}
}

type stdImage struct {
	img Image
}

func (s *stdImage) ColorModel() color.Model {
	if s.img.Bitmap().Depth() == BitDepth16 {
		return color.RGBA64Model
	}
	return color.RGBAModel
}

func (s *stdImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.img.Width(), s.img.Height())
}

func (s *stdImage) At(x, y int) color.Color {
	r, g, b := s.img.PixelAt(x, y)
	if s.img.Bitmap().Depth() == BitDepth16 {
		return color.RGBA64{R: r, G: g, B: b, A: 0xffff}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
