// Package imagesource supplies decoded images on demand from files,
// URLs, or memory, with composable transform wrappers.
package imagesource

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	viamutils "go.viam.com/utils"

	"go.viam.com/pixmap"
)

// A Source yields decoded images on demand. The release function
// returned by Next must be called once the image is no longer needed.
type Source interface {
	Next(ctx context.Context) (pixmap.Image, func(), error)
	Close() error
}

// StaticSource always serves the same image.
type StaticSource struct {
	Img pixmap.Image
}

// Next returns the held image.
func (ss *StaticSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	return ss.Img, func() {}, nil
}

// Close does nothing.
func (ss *StaticSource) Close() error {
	return nil
}

// FileSource decodes the file at FN on every request.
type FileSource struct {
	FN string
}

// Next loads and decodes the file.
func (fs *FileSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	img, err := pixmap.NewImageFromFile(fs.FN)
	return img, func() {}, err
}

// Close does nothing.
func (fs *FileSource) Close() error {
	return nil
}

// HTTPSource fetches and decodes an image from URL on every request.
type HTTPSource struct {
	client http.Client
	URL    string
}

func readyBytesFromURL(ctx context.Context, client http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		viamutils.UncheckedError(resp.Body.Close())
	}()
	return io.ReadAll(resp.Body)
}

// Next fetches the URL and decodes its body.
func (hs *HTTPSource) Next(ctx context.Context) (pixmap.Image, func(), error) {
	data, err := readyBytesFromURL(ctx, hs.client, hs.URL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't ready image url")
	}
	img, err := pixmap.DecodeImageBytes(data)
	if err != nil {
		return nil, nil, err
	}
	return img, func() {}, nil
}

// Close drops idle connections.
func (hs *HTTPSource) Close() error {
	hs.client.CloseIdleConnections()
	return nil
}
