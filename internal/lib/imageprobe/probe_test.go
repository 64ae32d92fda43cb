package imageprobe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	pngBytes := encodePNG(t, 640, 480)

	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.png":
			gotRange = r.Header.Get("Range")
			http.ServeContent(w, r, "photo.png", time.Time{}, bytes.NewReader(pngBytes))
		case "/notes.txt":
			_, _ = w.Write([]byte("not an image at all"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := New(5*time.Second, 1024)

	res, err := p.Probe(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, Result{Width: 640, Height: 480, Type: "png"}, res)
	assert.Equal(t, "bytes=0-1023", gotRange)

	res, err = p.Probe(context.Background(), srv.URL+"/notes.txt")
	require.NoError(t, err)
	assert.True(t, res.Empty())

	_, err = p.Probe(context.Background(), srv.URL+"/missing.jpg")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestDecodeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	res, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Result{Width: 32, Height: 16, Type: "jpg"}, res)
}
