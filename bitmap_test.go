package pixmap

import (
	"testing"

	"go.viam.com/test"
)

func TestBitmapZeroValue(t *testing.T) {
	var b Bitmap
	test.That(t, b.Depth(), test.ShouldEqual, BitDepthNone)
	test.That(t, b.HasData(), test.ShouldBeFalse)
	test.That(t, b.Len(), test.ShouldEqual, 0)
	test.That(t, b.Sample(0), test.ShouldEqual, 0)

	var nilB *Bitmap
	test.That(t, nilB.Depth(), test.ShouldEqual, BitDepthNone)
	test.That(t, nilB.HasData(), test.ShouldBeFalse)
	test.That(t, nilB.Len(), test.ShouldEqual, 0)
	test.That(t, nilB.Samples8(), test.ShouldBeNil)
	test.That(t, nilB.Samples16(), test.ShouldBeNil)
}

func TestBitmap8(t *testing.T) {
	b := NewBitmap8([]uint8{1, 2, 255})
	test.That(t, b.Depth(), test.ShouldEqual, BitDepth8)
	test.That(t, b.HasData(), test.ShouldBeTrue)
	test.That(t, b.Len(), test.ShouldEqual, 3)
	test.That(t, b.Sample(0), test.ShouldEqual, 1)
	test.That(t, b.Sample(2), test.ShouldEqual, 255)
	test.That(t, b.Samples8(), test.ShouldResemble, []uint8{1, 2, 255})
	test.That(t, b.Samples16(), test.ShouldBeNil)
}

func TestBitmap16(t *testing.T) {
	b := NewBitmap16([]uint16{1, 65535})
	test.That(t, b.Depth(), test.ShouldEqual, BitDepth16)
	test.That(t, b.HasData(), test.ShouldBeTrue)
	test.That(t, b.Len(), test.ShouldEqual, 2)
	test.That(t, b.Sample(1), test.ShouldEqual, 65535)
	test.That(t, b.Samples8(), test.ShouldBeNil)
	test.That(t, b.Samples16(), test.ShouldResemble, []uint16{1, 65535})
}
