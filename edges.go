package pixmap

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	sobelXMat = mat.NewDense(3, 3, []float64{1, 0, -1, 2, 0, -2, 1, 0, -1})
	sobelYMat = mat.NewDense(3, 3, []float64{1, 2, 1, 0, 0, 0, -1, -2, -1})
)

// Luminance64 flattens img into row-major luminance values in the
// sample range of its bit depth.
func Luminance64(img Image) []float64 {
	width, height := img.Width(), img.Height()
	lum := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := img.PixelAt(x, y)
			lum = append(lum, 0.299*float64(r)+0.587*float64(g)+0.114*float64(b))
		}
	}
	return lum
}

// SobelGradients applies the Sobel filter to the luminance of img and
// returns gradient magnitudes and directions. img must be at least
// 3x3; taking a gradient removes a pixel from all sides of the image.
func SobelGradients(img Image) (*mat.Dense, *mat.Dense) {
	width, height := img.Width(), img.Height()
	lum := mat.NewDense(height, width, Luminance64(img))
	magSlice := make([]float64, 0, (width-2)*(height-2))
	dirSlice := make([]float64, 0, (width-2)*(height-2))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			// apply the Sobel Filter over a 3x3 square around the pixel
			sX, sY := mat.NewDense(3, 3, nil), mat.NewDense(3, 3, nil)
			d := lum.Slice(y-1, y+2, x-1, x+2)
			sX.MulElem(sobelXMat, d)
			sY.MulElem(sobelYMat, d)
			sumX, sumY := mat.Sum(sX), mat.Sum(sY)
			mag, dir := getMagnitudeAndDirection(sumX, sumY)
			magSlice = append(magSlice, mag)
			dirSlice = append(dirSlice, dir)
		}
	}
	magnitudes := mat.NewDense(height-2, width-2, magSlice)
	directions := mat.NewDense(height-2, width-2, dirSlice)
	return magnitudes, directions
}

func getMagnitudeAndDirection(x, y float64) (float64, float64) {
	mag := math.Sqrt(x*x + y*y)
	// get direction - make angle so that it is between [0, 2pi] rather than [-pi, pi]
	dir := math.Atan2(y, x)
	if dir < 0. {
		dir += 2. * math.Pi
	}
	return mag, dir
}

// EdgeMap runs a Sobel pass over a blurred copy of img and scales the
// gradient magnitudes into an 8-bit gray image.
func EdgeMap(img Image, blur float64) (*image.Gray, error) {
	if img.Width() < 3 || img.Height() < 3 {
		return nil, errors.Errorf("%dx%d image is too small for a 3x3 gradient", img.Width(), img.Height())
	}
	if blur > 0 {
		img = NewImageFromStdImage(imaging.Blur(ToStdImage(img), blur))
	}
	mags, _ := SobelGradients(img)
	rows, cols := mags.Dims()
	out := image.NewGray(image.Rect(0, 0, cols, rows))
	max := mat.Max(mags)
	if max == 0 {
		max = 1
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.SetGray(x, y, color.Gray{Y: uint8(255 * mags.At(y, x) / max)})
		}
	}
	return out, nil
}

// SimpleEdgeDetection marks pixels whose Lab distance to their right
// or lower neighbor exceeds t1, after a preliminary blur.
func SimpleEdgeDetection(img Image, t1, blur float64) (*image.Gray, error) {
	blurred := NewImageFromStdImage(imaging.Blur(ToStdImage(img), blur))

	out := image.NewGray(blurred.Bounds())

	for y := 0; y < blurred.Height(); y++ {
		for x := 0; x < blurred.Width()-1; x++ {
			c0 := colorfulAt(blurred, x, y)
			c1 := colorfulAt(blurred, x+1, y)

			if c0.DistanceLab(c1) >= t1 {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	for x := 0; x < blurred.Width(); x++ {
		for y := 0; y < blurred.Height()-1; y++ {
			c0 := colorfulAt(blurred, x, y)
			c1 := colorfulAt(blurred, x, y+1)

			if c0.DistanceLab(c1) >= t1 {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return out, nil
}

// colorfulAt reads the pixel at (x,y) with channels normalized to
// [0,1] for color distance math.
func colorfulAt(img Image, x, y int) colorful.Color {
	r, g, b := img.PixelAt(x, y)
	max := float64(math.MaxUint8)
	if img.Bitmap().Depth() == BitDepth16 {
		max = float64(math.MaxUint16)
	}
	return colorful.Color{R: float64(r) / max, G: float64(g) / max, B: float64(b) / max}
}
