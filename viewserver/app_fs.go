// Package viewserver hosts a small web viewer over an image source:
// an index page, a JPEG re-encode endpoint with caller-chosen quality,
// a pixel readout endpoint, and an upload form to swap the image.
package viewserver

import "embed"

// appFS holds the viewer page templates.
//
//go:embed templates
var appFS embed.FS
