package pixmap

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ChannelStats summarizes one channel's sample distribution in the
// numeric range of the image's bit depth.
type ChannelStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// ImageStats holds per-channel sample statistics.
type ImageStats struct {
	R, G, B ChannelStats
}

// Stats walks every pixel of img and computes per-channel statistics.
func Stats(img Image) (*ImageStats, error) {
	n := img.Width() * img.Height()
	if n == 0 {
		return nil, errors.New("image has no pixels")
	}
	rSlice := make([]float64, 0, n)
	gSlice := make([]float64, 0, n)
	bSlice := make([]float64, 0, n)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			r, g, b := img.PixelAt(x, y)
			rSlice = append(rSlice, float64(r))
			gSlice = append(gSlice, float64(g))
			bSlice = append(bSlice, float64(b))
		}
	}

	var out ImageStats
	var err error
	if out.R, err = channelStats(rSlice); err != nil {
		return nil, err
	}
	if out.G, err = channelStats(gSlice); err != nil {
		return nil, err
	}
	if out.B, err = channelStats(bSlice); err != nil {
		return nil, err
	}
	return &out, nil
}

func channelStats(samples []float64) (ChannelStats, error) {
	mean, err := stats.Mean(samples)
	sd, err2 := stats.StandardDeviation(samples)
	min, err3 := stats.Min(samples)
	max, err4 := stats.Max(samples)
	if err != nil || err2 != nil || err3 != nil || err4 != nil {
		return ChannelStats{}, multierr.Combine(err, err2, err3, err4)
	}
	return ChannelStats{Mean: mean, StdDev: sd, Min: min, Max: max}, nil
}

// LuminanceHistogram bins the luminance values of img.
func LuminanceHistogram(img Image, nbins int) histogram.Histogram {
	return histogram.Hist(nbins, Luminance64(img))
}

// FprintLuminanceHistogram renders the luminance distribution of img
// as a text histogram on w.
func FprintLuminanceHistogram(w io.Writer, img Image, nbins int) error {
	return histogram.Fprint(w, LuminanceHistogram(img, nbins), histogram.Linear(40))
}
