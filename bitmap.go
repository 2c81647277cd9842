// Package pixmap decodes portable pixmap (PPM) images into a small
// bitmap abstraction that lets callers treat 8-bit and 16-bit pixel
// data uniformly, and re-encode either through a JPEG boundary.
package pixmap

// BitDepth is the storage width of one sample in a Bitmap.
type BitDepth int

const (
	// BitDepthNone marks a bitmap with no samples behind it.
	BitDepthNone BitDepth = 0
	// BitDepth8 is one byte per sample.
	BitDepth8 BitDepth = 8
	// BitDepth16 is two bytes per sample.
	BitDepth16 BitDepth = 16
)

// A Bitmap holds interleaved RGB samples at either 8 or 16 bits per
// sample. It carries no dimensions; the owning image interprets the
// flat sample sequence. The zero value has no data.
type Bitmap struct {
	depth BitDepth
	b8    []uint8
	b16   []uint16
}

// NewBitmap8 wraps 8-bit interleaved RGB samples.
func NewBitmap8(samples []uint8) *Bitmap {
	return &Bitmap{depth: BitDepth8, b8: samples}
}

// NewBitmap16 wraps 16-bit interleaved RGB samples.
func NewBitmap16(samples []uint16) *Bitmap {
	return &Bitmap{depth: BitDepth16, b16: samples}
}

// Depth reports the per-sample storage width.
func (b *Bitmap) Depth() BitDepth {
	if b == nil {
		return BitDepthNone
	}
	return b.depth
}

// HasData is true once the bitmap holds samples.
func (b *Bitmap) HasData() bool {
	return b.Depth() != BitDepthNone
}

// Len is the number of samples, three per pixel.
func (b *Bitmap) Len() int {
	switch b.Depth() {
	case BitDepth8:
		return len(b.b8)
	case BitDepth16:
		return len(b.b16)
	}
	return 0
}

// Sample returns the i-th sample widened to 16 bits. 8-bit samples
// keep their 0-255 numeric value.
func (b *Bitmap) Sample(i int) uint16 {
	switch b.Depth() {
	case BitDepth8:
		return uint16(b.b8[i])
	case BitDepth16:
		return b.b16[i]
	}
	return 0
}

// Samples8 is the raw 8-bit sample slice, nil unless Depth is
// BitDepth8. Callers must not modify it.
func (b *Bitmap) Samples8() []uint8 {
	if b == nil {
		return nil
	}
	return b.b8
}

// Samples16 is the raw 16-bit sample slice, nil unless Depth is
// BitDepth16. Callers must not modify it.
func (b *Bitmap) Samples16() []uint16 {
	if b == nil {
		return nil
	}
	return b.b16
}
