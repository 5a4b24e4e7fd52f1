package dto

import "errors"

// Custom errors
var (
	// ErrMalformedInput is returned when no line sequence was supplied at all.
	ErrMalformedInput = errors.New("malformed input: line sequence is required")

	ErrPersonNotFound   = errors.New("person not found")
	ErrNoTextRecognized = errors.New("no text recognized in document")
	ErrUnsupportedMedia = errors.New("unsupported document type")
	ErrImageFetch       = errors.New("failed to download image")
	ErrInvalidAadhaar   = errors.New("aadhaar number must be 12 digits")
	ErrInvalidDOB       = errors.New("dob must be YYYY-MM-DD")
	ErrPDFPassword      = errors.New("failed to decrypt PDF: wrong or missing password")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
