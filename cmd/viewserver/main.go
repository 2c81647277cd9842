// Viewserver serves a web viewer over a pixmap image.
package main

import (
	"context"
	"fmt"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/pixmap/imagesource"
	pixmaputils "go.viam.com/pixmap/utils"
	"go.viam.com/pixmap/viewserver"
)

var (
	defaultPort = 8080

	logger = golog.NewDevelopmentLogger("viewserver")
)

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Port      utils.NetPortFlag `flag:"0"`
	Image     string            `flag:"image,usage=image file to serve"`
	Watch     bool              `flag:"watch,usage=reload the image when the file changes"`
	URL       string            `flag:"url,usage=image url to serve"`
	UploadDir string            `flag:"uploads,usage=directory to save uploads into"`
	Debug     bool              `flag:"debug,usage=enable pprof routes"`
	LogFile   string            `flag:"logFile,usage=write debug logs to a file"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Port == 0 {
		argsParsed.Port = utils.NetPortFlag(defaultPort)
	}

	if argsParsed.LogFile != "" {
		fileLogger, err := pixmaputils.NewFilePathDebugLogger(argsParsed.LogFile, "viewserver")
		if err != nil {
			return err
		}
		logger = fileLogger
	}

	var source imagesource.Source
	switch {
	case argsParsed.URL != "":
		source = &imagesource.HTTPSource{URL: argsParsed.URL}
	case argsParsed.Image != "" && argsParsed.Watch:
		watched, err := imagesource.NewWatchedFileSource(argsParsed.Image, logger)
		if err != nil {
			return err
		}
		source = watched
	case argsParsed.Image != "":
		source = &imagesource.FileSource{FN: argsParsed.Image}
	default:
		return errors.New("need an image to serve (-image or -url)")
	}

	return viewserver.RunServer(ctx, source, logger, viewserver.Options{
		BindAddress: fmt.Sprintf("localhost:%d", argsParsed.Port),
		UploadDir:   argsParsed.UploadDir,
		Debug:       argsParsed.Debug,
	})
}
