package client

import (
	"errors"
	"fmt"
)

// OCRError wraps a failure of one OCR engine.
type OCRError struct {
	// Engine is the engine that failed ("tesseract", "paddle").
	Engine string
	// Op is the step that failed (e.g. "decode", "set image", "request").
	Op  string
	Err error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Engine, e.Op, e.Err)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

func newOCRError(engine, op string, err error) error {
	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}
	return &OCRError{Engine: engine, Op: op, Err: err}
}
