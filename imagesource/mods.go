package imagesource

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"go.viam.com/pixmap"
)

// RotateSource rotates every image from Original clockwise by Angle
// degrees. Rotated output is 8-bit.
type RotateSource struct {
	Original Source
	Angle    float64
}

// Next rotates the next image.
func (rs *RotateSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	orig, release, err := rs.Original.Next(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	// imaging.Rotate rotates counter-clockwise, so the angle is negated
	// to rotate clockwise
	rotated := imaging.Rotate(pixmap.ToStdImage(orig), -rs.Angle, color.Black)
	return pixmap.NewImageFromStdImage(rotated), func() {}, nil
}

// Close closes the wrapped source.
func (rs *RotateSource) Close() error {
	return rs.Original.Close()
}

// ResizeSource scales every image from Original to Width x Height.
// Scaled output is 8-bit.
type ResizeSource struct {
	Original Source
	Width    int
	Height   int
}

// Next scales the next image.
func (rs *ResizeSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	if rs.Width <= 0 {
		return nil, nil, errors.New("new width for resize transform cannot be 0")
	}
	if rs.Height <= 0 {
		return nil, nil, errors.New("new height for resize transform cannot be 0")
	}
	orig, release, err := rs.Original.Next(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	src := pixmap.ToStdImage(orig)
	dst := image.NewRGBA(image.Rect(0, 0, rs.Width, rs.Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return pixmap.NewImageFromStdImage(dst), func() {}, nil
}

// Close closes the wrapped source.
func (rs *ResizeSource) Close() error {
	return rs.Original.Close()
}

// CropSource cuts every image from Original down to Window.
type CropSource struct {
	Original Source
	Window   image.Rectangle
}

// Next crops the next image.
func (cs *CropSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	orig, release, err := cs.Original.Next(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	cropped := imaging.Crop(pixmap.ToStdImage(orig), cs.Window)
	if cropped.Bounds().Empty() {
		return nil, nil, errors.New("crop transform cropped image to 0 pixels")
	}
	return pixmap.NewImageFromStdImage(cropped), func() {}, nil
}

// Close closes the wrapped source.
func (cs *CropSource) Close() error {
	return cs.Original.Close()
}
