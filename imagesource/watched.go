package imagesource

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	viamutils "go.viam.com/utils"

	"go.viam.com/pixmap"
)

// A WatchedFileSource serves the latest successfully decoded version
// of a file, reloading whenever the file is rewritten. A rewrite that
// fails to decode is logged and the previous image stays current.
type WatchedFileSource struct {
	fn                      string
	logger                  golog.Logger
	watcher                 *fsnotify.Watcher
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup

	mu  sync.RWMutex
	img pixmap.Image
}

// NewWatchedFileSource decodes fn once up front and then follows it.
func NewWatchedFileSource(fn string, logger golog.Logger) (*WatchedFileSource, error) {
	img, err := pixmap.NewImageFromFile(fn)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(fn); err != nil {
		return nil, multierr.Combine(err, watcher.Close())
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	ws := &WatchedFileSource{
		fn:      fn,
		logger:  logger,
		watcher: watcher,
		cancel:  cancel,
		img:     img,
	}
	ws.activeBackgroundWorkers.Add(1)
	viamutils.PanicCapturingGo(func() {
		defer ws.activeBackgroundWorkers.Done()
		for {
			select {
			case <-cancelCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				newImg, err := pixmap.NewImageFromFile(ws.fn)
				if err != nil {
					logger.Errorw("failed to reload watched image", "path", ws.fn, "error", err)
					continue
				}
				ws.mu.Lock()
				ws.img = newImg
				ws.mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorw("watcher error", "path", ws.fn, "error", err)
			}
		}
	})
	return ws, nil
}

// Next returns the most recent good image.
func (ws *WatchedFileSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.img, func() {}, nil
}

// Close stops watching.
func (ws *WatchedFileSource) Close() error {
	ws.cancel()
	err := ws.watcher.Close()
	ws.activeBackgroundWorkers.Wait()
	return err
}
