package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPaddleClientRecognizeLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req paddleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Images) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[[{"text":"To","confidence":0.99},{"text":"Ramesh Kumar","confidence":0.97}]]}`))
	}))
	defer srv.Close()

	pc := NewPaddleClient(srv.URL, time.Second)
	lines, err := pc.RecognizeLines(context.Background(), []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, []string{"To", "Ramesh Kumar"}, lines)
}

func TestPaddleClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	pc := NewPaddleClient(srv.URL, time.Second)
	_, err := pc.RecognizeLines(context.Background(), []byte("img"))

	var ocrErr *OCRError
	require.True(t, errors.As(err, &ocrErr))
	assert.Equal(t, "paddle", ocrErr.Engine)
	assert.Contains(t, err.Error(), "503")
}

func TestImageFetcherFetch(t *testing.T) {
	data := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	doc, err := NewImageFetcher(time.Second, 1<<20).Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, data, doc.Data)
	assert.Equal(t, "image/png", doc.MIME)
}

func TestImageFetcherRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer srv.Close()

	f := NewImageFetcher(time.Second, 32)

	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/big")
	assert.ErrorContains(t, err, "exceeds")
}

func TestPreprocessImage(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(pngBytes(t, 40, 20)))
	require.NoError(t, err)

	out := preprocessImage(img, 2.5)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	out = preprocessImage(img, 1)
	assert.Equal(t, 40, out.Bounds().Dx())
}

func TestTesseractClientRejectsGarbage(t *testing.T) {
	tc := NewTesseractClient("", "eng", 2.5)
	_, err := tc.RecognizeLines(context.Background(), []byte("not an image"))

	var ocrErr *OCRError
	require.True(t, errors.As(err, &ocrErr))
	assert.Equal(t, "decode", ocrErr.Op)
}
