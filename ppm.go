package pixmap

import (
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Format identifies a portable pixmap variant by its magic token.
type Format string

const (
	// FormatP3 is the ASCII pixmap variant with decimal text samples.
	FormatP3 Format = "P3"
	// FormatP6 is the raw pixmap variant with one byte per sample.
	FormatP6 Format = "P6"
)

// A PPM is a decoded portable pixmap. Its header max value decides the
// sample depth: values up to 255 are stored 8-bit, anything larger
// 16-bit. Raw (P6) pixel bytes are widened to 16 bits one byte per
// sample in that case, never rescaled and never paired, so rasters
// written with two bytes per sample fail the sample count check.
type PPM struct {
	RGBImage
	format   Format
	maxValue int
}

var _ Image = (*PPM)(nil)

// Format returns the pixmap variant this image was decoded from.
func (p *PPM) Format() Format {
	return p.format
}

// MaxValue returns the header's declared maximum channel value.
func (p *PPM) MaxValue() int {
	return p.maxValue
}

// ParsePPM decodes the pixmap file at fn.
func ParsePPM(fn string) (ppm *PPM, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return ReadPPM(f)
}

// ReadPPM decodes a pixmap from r, consuming it fully.
func ReadPPM(r io.Reader) (*PPM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading pixmap")
	}
	return DecodePPM(data)
}

// DecodePPM decodes a complete pixmap held in data. It either returns
// a fully populated image or an error; no partial result escapes.
func DecodePPM(data []byte) (*PPM, error) {
	if len(data) < 2 {
		return nil, newHeaderError("%d bytes is too short for a pixmap", len(data))
	}
	format := Format(data[:2])
	if format != FormatP3 && format != FormatP6 {
		return nil, newHeaderError("unknown magic %q", string(data[:2]))
	}

	norm := normalize(data, format == FormatP6)

	magic, pos, err := nextHeaderToken(norm, 0)
	if err != nil {
		return nil, &HeaderError{Reason: err}
	}
	if Format(magic) != format {
		return nil, newHeaderError("malformed magic token %q", magic)
	}
	width, pos, err := headerField(norm, pos, "width")
	if err != nil {
		return nil, err
	}
	height, pos, err := headerField(norm, pos, "height")
	if err != nil {
		return nil, err
	}
	maxValue, pos, err := headerField(norm, pos, "max value")
	if err != nil {
		return nil, err
	}
	want, err := samplesWanted(width, height)
	if err != nil {
		return nil, err
	}

	var samples []uint16
	if format == FormatP6 {
		samples = widenRawSamples(norm[pos:])
	} else {
		samples, err = scanASCIISamples(norm[pos:])
		if err != nil {
			return nil, err
		}
	}

	if len(samples) != want {
		return nil, newPixelDataError("pixel block has %d samples, want %d for %dx%d", len(samples), want, width, height)
	}

	var bm *Bitmap
	if maxValue <= math.MaxUint8 {
		narrowed := make([]uint8, len(samples))
		for i, s := range samples {
			narrowed[i] = uint8(s)
		}
		bm = NewBitmap8(narrowed)
	} else {
		bm = NewBitmap16(samples)
	}

	return &PPM{
		RGBImage: RGBImage{width: width, height: height, bitmap: bm},
		format:   format,
		maxValue: maxValue,
	}, nil
}

type normState int

const (
	stateNormal normState = iota
	stateInComment
	stateCollapsing
	statePassThrough
)

// headerDivisions is the number of whitespace-split regions a pixmap
// opens with: magic, width, height, max value, then the pixel block.
const headerDivisions = 5

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// normalize strips '#' comments and collapses whitespace runs so every
// header token is separated by exactly one whitespace byte. Divisions
// are counted as separators complete; when raw is set the fifth
// division, the pixel block, is copied through untouched since raw
// samples are binary, not text. ASCII bodies are normalized to the end
// because their samples are themselves whitespace-delimited text.
// One pass, one output buffer.
func normalize(data []byte, raw bool) []byte {
	out := make([]byte, 0, len(data))
	state := stateNormal
	resume := stateNormal
	division := 1
	for i := 0; i < len(data); i++ {
		if state == statePassThrough {
			out = append(out, data[i:]...)
			break
		}
		c := data[i]
		switch state {
		case stateNormal:
			switch {
			case c == '#':
				resume = stateNormal
				state = stateInComment
			case isSpace(c):
				out = append(out, c)
				division++
				if raw && division == headerDivisions {
					state = statePassThrough
				} else {
					state = stateCollapsing
				}
			default:
				out = append(out, c)
			}
		case stateCollapsing:
			switch {
			case c == '#':
				resume = stateCollapsing
				state = stateInComment
			case isSpace(c):
				// repeat separator, drop
			default:
				out = append(out, c)
				state = stateNormal
			}
		case stateInComment:
			if c == '\n' {
				state = resume
			}
		}
	}
	return out
}

// nextHeaderToken consumes through the separator after pos and returns
// the token before it.
func nextHeaderToken(data []byte, pos int) (string, int, error) {
	end := pos
	for end < len(data) && !isSpace(data[end]) {
		end++
	}
	if end == len(data) {
		return "", 0, errors.New("header ends before its tokens do")
	}
	return string(data[pos:end]), end + 1, nil
}

// headerField reads one numeric header token.
func headerField(data []byte, pos int, name string) (int, int, error) {
	tok, next, err := nextHeaderToken(data, pos)
	if err != nil {
		return 0, 0, &HeaderError{Reason: err}
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, 0, newHeaderError("bad %s %q", name, tok)
	}
	return v, next, nil
}

// scanASCIISamples parses whitespace-delimited decimal samples from an
// ASCII pixel block.
func scanASCIISamples(data []byte) ([]uint16, error) {
	samples := make([]uint16, 0, len(data)/4)
	value := 0
	inToken := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isSpace(c):
			if inToken {
				samples = append(samples, uint16(value))
				value = 0
				inToken = false
			}
		case c >= '0' && c <= '9':
			value = value*10 + int(c-'0')
			if value > math.MaxUint16 {
				return nil, newPixelDataError("ascii sample %d exceeds 16 bits", value)
			}
			inToken = true
		default:
			return nil, newPixelDataError("byte %q at offset %d is not a decimal sample", c, i)
		}
	}
	if inToken {
		samples = append(samples, uint16(value))
	}
	return samples, nil
}

// widenRawSamples reads a raw pixel block, one byte per sample.
func widenRawSamples(data []byte) []uint16 {
	samples := make([]uint16, len(data))
	for i, b := range data {
		samples[i] = uint16(b)
	}
	return samples
}
