package client

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// TesseractClient runs the local Tesseract engine through gosseract.
// A fresh gosseract client is created per call, so one TesseractClient is
// safe for concurrent use.
type TesseractClient struct {
	dataPath string
	lang     string
	upscale  float64
}

func NewTesseractClient(dataPath, lang string, upscale float64) *TesseractClient {
	if lang == "" {
		lang = "eng"
	}
	if upscale <= 0 {
		upscale = 1
	}
	return &TesseractClient{
		dataPath: dataPath,
		lang:     lang,
		upscale:  upscale,
	}
}

// Name identifies the engine in logs.
func (tc *TesseractClient) Name() string {
	return "tesseract"
}

// RecognizeLines upscales the image, converts it to grayscale and returns
// Tesseract's text split into lines, top to bottom.
func (tc *TesseractClient) RecognizeLines(ctx context.Context, imageData []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, newOCRError(tc.Name(), "decode", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, preprocessImage(img, tc.upscale), imaging.PNG); err != nil {
		return nil, newOCRError(tc.Name(), "encode", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return nil, newOCRError(tc.Name(), "set tessdata prefix", err)
		}
	}

	if err := client.SetLanguage(tc.lang); err != nil {
		return nil, newOCRError(tc.Name(), "set language", fmt.Errorf("%s: %w", tc.lang, err))
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, newOCRError(tc.Name(), "set image", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, newOCRError(tc.Name(), "text", err)
	}

	return strings.Split(strings.ReplaceAll(text, "\r", ""), "\n"), nil
}

// preprocessImage enlarges small scans; Tesseract reads the thin Aadhaar
// print much better at roughly 300 DPI.
func preprocessImage(img image.Image, scale float64) image.Image {
	if scale != 1 {
		w := int(float64(img.Bounds().Dx()) * scale)
		if w > 0 {
			img = imaging.Resize(img, w, 0, imaging.CatmullRom)
		}
	}
	return imaging.Grayscale(img)
}
