// Package imageprobe reads image dimensions from the first bytes of a file,
// locally or over HTTP with a Range request.
package imageprobe

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const DefaultMaxBytes = 64 << 10

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Result is empty (zero width and height) when the format is not recognized.
type Result struct {
	Width  int
	Height int
	Type   string
}

func (r Result) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type Prober struct {
	client   *http.Client
	maxBytes int64
}

func New(timeout time.Duration, maxBytes int64) *Prober {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Prober{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Probe fetches at most maxBytes of url and decodes the image header.
func (p *Prober) Probe(ctx context.Context, url string) (Result, error) {
	const op = "imageprobe.Probe"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", p.maxBytes-1))

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return Result{}, fmt.Errorf("%s: %w: %d", op, ErrUnexpectedStatus, resp.StatusCode)
	}

	res, err := Decode(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// Decode reads only the image header from r. Unknown formats yield an empty Result.
func Decode(r io.Reader) (Result, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Result{}, nil
		}
		return Result{}, err
	}

	if format == "jpeg" {
		format = "jpg"
	}

	return Result{Width: cfg.Width, Height: cfg.Height, Type: format}, nil
}
