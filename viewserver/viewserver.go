package viewserver

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"sync"

	"github.com/Masterminds/sprig"
	"github.com/edaniels/golog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	viamutils "go.viam.com/utils"
	"goji.io"
	"goji.io/pat"

	"go.viam.com/pixmap"
	"go.viam.com/pixmap/imagesource"
	"go.viam.com/pixmap/utils"
)

// DefaultBindAddress is used when Options does not name one.
const DefaultBindAddress = "localhost:8080"

// defaultQuality is the JPEG quality used when a request does not pick one.
const defaultQuality = 100

// Options configures a Server.
type Options struct {
	// BindAddress is the host:port to listen on.
	BindAddress string

	// UploadDir, when set, receives a copy of every uploaded image.
	UploadDir string

	// Debug enables the pprof routes.
	Debug bool
}

// A Server serves a web viewer over an image source. Uploading a new
// image through the viewer swaps the source out for a static one.
type Server struct {
	mu                      sync.Mutex
	source                  imagesource.Source
	app                     *viewerApp
	addr                    string
	logger                  golog.Logger
	options                 Options
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
	isRunning               bool
}

// New returns a viewer over the given source. Start must be called to
// begin serving.
func New(source imagesource.Source, logger golog.Logger, options Options) (*Server, error) {
	s := &Server{
		source:  source,
		logger:  logger,
		options: options,
	}
	app := &viewerApp{srv: s, logger: logger}
	if err := app.Init(); err != nil {
		return nil, err
	}
	s.app = app
	return s, nil
}

// Start serves the viewer until ctx is done or Stop is called. It does
// not block; the listen address is available from Address after it
// returns.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return errors.New("viewer server already started")
	}
	cancelCtx, cancelFunc := context.WithCancel(ctx)
	s.cancelFunc = cancelFunc
	s.isRunning = true
	if err := s.runWeb(cancelCtx); err != nil {
		cancelFunc()
		s.isRunning = false
		return err
	}
	return nil
}

func (s *Server) runWeb(ctx context.Context) error {
	bindAddress := s.options.BindAddress
	if bindAddress == "" {
		bindAddress = DefaultBindAddress
	}
	listener, err := net.Listen("tcp", bindAddress)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()

	httpServer, err := viamutils.NewPossiblySecureHTTPServer(s.initMux(), viamutils.HTTPServerOptions{
		Secure: false,
		Addr:   s.addr,
	})
	if err != nil {
		return multierr.Combine(err, listener.Close())
	}

	s.activeBackgroundWorkers.Add(1)
	viamutils.PanicCapturingGo(func() {
		defer s.activeBackgroundWorkers.Done()
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Errorw("error shutting down", "error", err)
		}
	})
	s.activeBackgroundWorkers.Add(1)
	viamutils.PanicCapturingGo(func() {
		defer s.activeBackgroundWorkers.Done()
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("error serving", "error", err)
		}
	})

	s.logger.Infow("serving", "url", fmt.Sprintf("http://%s", s.addr))
	return nil
}

func (s *Server) initMux() *goji.Mux {
	mux := goji.NewMux()
	mux.Handle(pat.New("/"), s.app)
	mux.HandleFunc(pat.Get("/image.jpeg"), s.handleImage)
	mux.HandleFunc(pat.Get("/pixel"), s.handlePixel)
	mux.HandleFunc(pat.Post("/upload"), s.handleUpload)
	if s.options.Debug {
		mux.HandleFunc(pat.New("/debug/pprof/"), pprof.Index)
		mux.HandleFunc(pat.New("/debug/pprof/cmdline"), pprof.Cmdline)
		mux.HandleFunc(pat.New("/debug/pprof/profile"), pprof.Profile)
		mux.HandleFunc(pat.New("/debug/pprof/symbol"), pprof.Symbol)
		mux.HandleFunc(pat.New("/debug/pprof/trace"), pprof.Trace)
	}
	return mux
}

// Address returns the address the server is listening on. It is only
// meaningful after Start.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop signals the server to shut down and waits for its workers.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	cancel := s.cancelFunc
	s.isRunning = false
	s.mu.Unlock()
	cancel()
	s.activeBackgroundWorkers.Wait()
}

// Close stops the server and closes its current image source.
func (s *Server) Close() error {
	s.Stop()
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()
	return src.Close()
}

func (s *Server) currentImage(ctx context.Context) (pixmap.Image, func(), error) {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()
	return src.Next(ctx)
}

func (s *Server) swapSource(img pixmap.Image) {
	s.mu.Lock()
	old := s.source
	s.source = &imagesource.StaticSource{Img: img}
	s.mu.Unlock()
	if err := old.Close(); err != nil {
		s.logger.Errorw("error closing previous image source", "error", err)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	quality := defaultQuality
	if qs := r.FormValue("quality"); qs != "" {
		q, err := strconv.Atoi(qs)
		if err != nil {
			http.Error(w, fmt.Sprintf("bad quality %q", qs), http.StatusBadRequest)
			return
		}
		quality = q
	}
	img, release, err := s.currentImage(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer release()
	data, err := pixmap.EncodeJPEG(img, quality)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", pixmap.MimeTypeJPEG)
	if _, err := w.Write(data); err != nil {
		s.logger.Errorw("error writing image response", "error", err)
	}
}

type pixelResponse struct {
	X   int    `json:"x"`
	Y   int    `json:"y"`
	R   uint16 `json:"r"`
	G   uint16 `json:"g"`
	B   uint16 `json:"b"`
	Hex string `json:"hex"`
}

func (s *Server) handlePixel(w http.ResponseWriter, r *http.Request) {
	x, err := strconv.Atoi(r.FormValue("x"))
	if err != nil {
		http.Error(w, "bad x", http.StatusBadRequest)
		return
	}
	y, err := strconv.Atoi(r.FormValue("y"))
	if err != nil {
		http.Error(w, "bad y", http.StatusBadRequest)
		return
	}
	img, release, err := s.currentImage(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer release()
	cr, cg, cb := img.PixelAt(x, y)
	div := 255.0
	if img.Bitmap().Depth() == pixmap.BitDepth16 {
		div = 65535.0
	}
	c := colorful.Color{R: float64(cr) / div, G: float64(cg) / div, B: float64(cb) / div}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(pixelResponse{
		X: x, Y: y, R: cr, G: cg, B: cb, Hex: c.Hex(),
	}); err != nil {
		s.logger.Errorw("error writing pixel response", "error", err)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer viamutils.UncheckedErrorFunc(file.Close)
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := pixmap.DetectMIMEType(data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img, err := pixmap.DecodeImageBytes(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.options.UploadDir != "" {
		s.saveUpload(header.Filename, data)
	}
	s.swapSource(img)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// saveUpload copies an accepted upload into the configured directory.
// Failures are logged, not returned; the viewer already has the image.
func (s *Server) saveUpload(name string, data []byte) {
	dst, err := utils.SafeJoinDir(s.options.UploadDir, name)
	if err != nil {
		s.logger.Errorw("error resolving upload path", "name", name, "error", err)
		return
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		s.logger.Errorw("error saving upload", "path", dst, "error", err)
	}
}

// viewerApp renders the index page.
type viewerApp struct {
	srv      *Server
	template *template.Template
	logger   golog.Logger
}

// Init does template initialization.
func (app *viewerApp) Init() error {
	t, err := template.New("foo").Funcs(sprig.FuncMap()).ParseFS(appFS, "templates/*.html")
	if err != nil {
		return err
	}
	app.template = t.Lookup("index.html")
	if app.template == nil {
		return errors.New("no index.html template")
	}
	return nil
}

type viewPageData struct {
	Width    int
	Height   int
	Depth    int
	Format   string
	MaxValue int
	Quality  int
}

func (app *viewerApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	img, release, err := app.srv.currentImage(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer release()

	data := viewPageData{
		Width:   img.Width(),
		Height:  img.Height(),
		Depth:   int(img.Bitmap().Depth()),
		Quality: defaultQuality,
	}
	switch v := img.(type) {
	case *pixmap.PPM:
		data.Format = string(v.Format())
		data.MaxValue = v.MaxValue()
	case *pixmap.JPEG:
		data.Format = "jpeg"
	}

	if err := app.template.Execute(w, data); err != nil {
		app.logger.Debugf("couldn't execute web page: %s", err)
	}
}

// RunServer serves the viewer until ctx is done, closing source on the
// way out. It blocks.
func RunServer(ctx context.Context, source imagesource.Source, logger golog.Logger, options Options) (err error) {
	defer func() {
		if err != nil && viamutils.FilterOutError(err, context.Canceled) != nil {
			logger.Errorw("error serving viewer", "error", err)
		}
		err = viamutils.FilterOutError(err, context.Canceled)
	}()
	server, err := New(source, logger, options)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, server.Close())
	}()
	if err := server.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}
