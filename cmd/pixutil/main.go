// Pixutil inspects and converts pixmap images from the command line.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"strconv"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"

	"go.viam.com/pixmap"
)

var logger = golog.NewDevelopmentLogger("pixutil")

func main() {
	err := realMain(os.Args[1:])
	if err != nil {
		logger.Fatal(err)
	}
}

func info(flags *flag.FlagSet) error {
	if flags.NArg() < 2 {
		return fmt.Errorf("info needs <image in>")
	}

	img, err := pixmap.NewImageFromFile(flags.Arg(1))
	if err != nil {
		return err
	}

	fmt.Printf("size: %dx%d\n", img.Width(), img.Height())
	fmt.Printf("depth: %d-bit\n", img.Bitmap().Depth())
	fmt.Printf("samples: %d\n", img.Bitmap().Len())
	switch v := img.(type) {
	case *pixmap.PPM:
		fmt.Printf("format: %s\n", v.Format())
		fmt.Printf("max value: %d\n", v.MaxValue())
	case *pixmap.JPEG:
		fmt.Printf("format: jpeg\n")
	}
	return nil
}

func convert(args []string) error {
	flags := flag.NewFlagSet("convert", flag.ContinueOnError)
	quality := flags.Int("quality", 100, "jpeg encode quality, 0-100")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return fmt.Errorf("convert needs [-quality n] <image in> <image out>")
	}

	img, err := pixmap.NewImageFromFile(flags.Arg(0))
	if err != nil {
		return err
	}

	return pixmap.WriteImageToFile(flags.Arg(1), img, *quality)
}

func pixel(flags *flag.FlagSet) error {
	if flags.NArg() < 4 {
		return fmt.Errorf("pixel needs <image in> <x> <y>")
	}

	img, err := pixmap.NewImageFromFile(flags.Arg(1))
	if err != nil {
		return err
	}

	x, err := strconv.Atoi(flags.Arg(2))
	if err != nil {
		return fmt.Errorf("bad x %q", flags.Arg(2))
	}
	y, err := strconv.Atoi(flags.Arg(3))
	if err != nil {
		return fmt.Errorf("bad y %q", flags.Arg(3))
	}

	r, g, b := img.PixelAt(x, y)
	fmt.Printf("(%d,%d) r=%d g=%d b=%d\n", x, y, r, g, b)
	return nil
}

func edges(flags *flag.FlagSet) error {
	if flags.NArg() < 3 {
		return fmt.Errorf("edges needs <image in> <png out> [blur]")
	}

	img, err := pixmap.NewImageFromFile(flags.Arg(1))
	if err != nil {
		return err
	}

	blur := 3.0
	if flags.NArg() > 3 {
		blur, err = strconv.ParseFloat(flags.Arg(3), 64)
		if err != nil {
			return fmt.Errorf("bad blur %q", flags.Arg(3))
		}
	}

	edgeMap, err := pixmap.EdgeMap(img, blur)
	if err != nil {
		return err
	}

	out, err := os.Create(flags.Arg(2))
	if err != nil {
		return err
	}
	return multierr.Combine(png.Encode(out, edgeMap), out.Close())
}

func imageStats(flags *flag.FlagSet) error {
	if flags.NArg() < 2 {
		return fmt.Errorf("stats needs <image in>")
	}

	img, err := pixmap.NewImageFromFile(flags.Arg(1))
	if err != nil {
		return err
	}

	st, err := pixmap.Stats(img)
	if err != nil {
		return err
	}

	fmt.Printf("r: mean=%.2f stddev=%.2f min=%.0f max=%.0f\n", st.R.Mean, st.R.StdDev, st.R.Min, st.R.Max)
	fmt.Printf("g: mean=%.2f stddev=%.2f min=%.0f max=%.0f\n", st.G.Mean, st.G.StdDev, st.G.Min, st.G.Max)
	fmt.Printf("b: mean=%.2f stddev=%.2f min=%.0f max=%.0f\n", st.B.Mean, st.B.StdDev, st.B.Min, st.B.Max)
	fmt.Printf("luminance:\n")
	return pixmap.FprintLuminanceHistogram(os.Stdout, img, 10)
}

func realMain(args []string) error {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	err := flags.Parse(args)
	if err != nil {
		return err
	}

	if flags.NArg() < 1 {
		return fmt.Errorf("need to specify a command")
	}

	cmd := flags.Arg(0)

	switch cmd {
	case "info":
		return info(flags)
	case "convert":
		return convert(flags.Args()[1:])
	case "pixel":
		return pixel(flags)
	case "edges":
		return edges(flags)
	case "stats":
		return imageStats(flags)
	default:
		return fmt.Errorf("unknown command: [%s]", cmd)
	}
}
