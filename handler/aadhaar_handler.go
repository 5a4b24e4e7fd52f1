package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/client"
	"github.com/Aashish23092/aadhaar-autofill/dto"
)

// AadhaarExtractor is the part of service.AadhaarService the handler uses.
type AadhaarExtractor interface {
	ExtractFromURL(ctx context.Context, imageURL, owner string) (*dto.AadhaarOCRResponse, error)
	ExtractFromDocument(ctx context.Context, data []byte, mimeType, password, owner string) (*dto.AadhaarOCRResponse, error)
}

// AadhaarHandler handles Aadhaar extraction requests
type AadhaarHandler struct {
	aadhaarService AadhaarExtractor
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewAadhaarHandler creates a new AadhaarHandler instance
func NewAadhaarHandler(aadhaarService AadhaarExtractor, maxUploadBytes int64, log zerolog.Logger) *AadhaarHandler {
	return &AadhaarHandler{
		aadhaarService: aadhaarService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// ExtractFromURL handles POST /ocr/aadhaar?owner=member|nominee
func (h *AadhaarHandler) ExtractFromURL(c *gin.Context) {
	var req dto.AadhaarOCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "image_url is required", err)
		return
	}

	owner, ok := parseOwner(c.Query("owner"))
	if !ok {
		h.sendError(c, http.StatusBadRequest, "owner must be member or nominee", nil)
		return
	}

	result, err := h.aadhaarService.ExtractFromURL(c.Request.Context(), req.ImageURL, owner)
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExtractFromUpload handles POST /ocr/aadhaar/upload (multipart "file")
func (h *AadhaarHandler) ExtractFromUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		h.sendError(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}

	owner, ok := parseOwner(c.PostForm("owner"))
	if !ok {
		h.sendError(c, http.StatusBadRequest, "owner must be member or nominee", nil)
		return
	}

	reader, err := file.Open()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to open uploaded file", err)
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read file data", err)
		return
	}

	mimeType := client.DetectMIME(data)
	if !isValidMimeType(mimeType) {
		h.sendError(c, http.StatusUnsupportedMediaType, "Invalid file type. Supported: PDF, PNG, JPEG", nil)
		return
	}

	h.log.Info().Str("filename", file.Filename).Str("mime", mimeType).Msg("processing uploaded Aadhaar file")

	result, err := h.aadhaarService.ExtractFromDocument(c.Request.Context(), data, mimeType, c.PostForm("password"), owner)
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AadhaarHandler) sendExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dto.ErrImageFetch):
		h.sendError(c, http.StatusBadRequest, "Failed to download image", err)
	case errors.Is(err, dto.ErrUnsupportedMedia):
		h.sendError(c, http.StatusUnsupportedMediaType, "Unsupported document type", err)
	case errors.Is(err, dto.ErrNoTextRecognized):
		h.sendError(c, http.StatusUnprocessableEntity, "No text could be recognized", err)
	case errors.Is(err, dto.ErrPDFPassword):
		h.sendError(c, http.StatusBadRequest, "Failed to decrypt PDF. Check password.", err)
	default:
		h.sendError(c, http.StatusInternalServerError, "Failed to extract Aadhaar", err)
	}
}

// sendError sends a structured error response
func (h *AadhaarHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	sendError(c, h.log, "AADHAAR_EXTRACTION_FAILED", statusCode, message, err)
}

// parseOwner accepts "", "member" and "nominee" in any case.
func parseOwner(owner string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(owner)) {
	case "", dto.OwnerMember:
		return dto.OwnerMember, true
	case dto.OwnerNominee:
		return dto.OwnerNominee, true
	}
	return "", false
}

// isValidMimeType checks if the MIME type is supported
func isValidMimeType(mimeType string) bool {
	validTypes := []string{
		"application/pdf",
		"image/png",
		"image/jpeg",
	}

	mimeType = strings.ToLower(mimeType)
	for _, valid := range validTypes {
		if strings.Contains(mimeType, valid) {
			return true
		}
	}
	return false
}
