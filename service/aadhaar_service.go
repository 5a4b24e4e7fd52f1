package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/client"
	"github.com/Aashish23092/aadhaar-autofill/dto"
	"github.com/Aashish23092/aadhaar-autofill/repository"
	"github.com/Aashish23092/aadhaar-autofill/utils"
)

// TextRecognizer is the OCR engine seam: image bytes in, ordered text
// lines out.
type TextRecognizer interface {
	Name() string
	RecognizeLines(ctx context.Context, imageData []byte) ([]string, error)
}

// DocumentFetcher downloads the document behind an image URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*client.Document, error)
}

// AadhaarService handles Aadhaar card data extraction
type AadhaarService struct {
	fetcher     DocumentFetcher
	recognizers []TextRecognizer
	pdf         PDFProcessor
	persons     repository.PersonRepository
	log         zerolog.Logger
}

// NewAadhaarService wires the extraction pipeline. recognizers are tried in
// order; persons may be nil, which disables the nominee lookup.
func NewAadhaarService(
	fetcher DocumentFetcher,
	recognizers []TextRecognizer,
	pdf PDFProcessor,
	persons repository.PersonRepository,
	log zerolog.Logger,
) *AadhaarService {
	return &AadhaarService{
		fetcher:     fetcher,
		recognizers: recognizers,
		pdf:         pdf,
		persons:     persons,
		log:         log,
	}
}

// ExtractFromURL downloads the image and extracts Aadhaar fields from it.
func (s *AadhaarService) ExtractFromURL(ctx context.Context, imageURL, owner string) (*dto.AadhaarOCRResponse, error) {
	doc, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrImageFetch, err)
	}
	s.log.Debug().Str("mime", doc.MIME).Int("bytes", len(doc.Data)).Msg("image downloaded")

	return s.ExtractFromDocument(ctx, doc.Data, doc.MIME, "", owner)
}

// ExtractFromDocument extracts Aadhaar fields from an image or e-Aadhaar PDF.
//
// owner=member always returns what was read from the document. For
// owner=nominee the person store is consulted first with the extracted
// Aadhaar number and a stored record wins over the OCR result.
func (s *AadhaarService) ExtractFromDocument(ctx context.Context, data []byte, mimeType, password, owner string) (*dto.AadhaarOCRResponse, error) {
	nominee := strings.EqualFold(owner, dto.OwnerNominee)

	dob := utils.DOBLastMatch
	if nominee {
		dob = utils.DOBByContext
	}

	result, err := s.extract(ctx, data, mimeType, password, dob)
	if err != nil {
		return nil, err
	}

	if nominee && result.AadhaarNumber != "" && s.persons != nil {
		person, err := s.persons.GetByAadhaar(ctx, result.AadhaarNumber)
		switch {
		case err == nil:
			s.log.Info().Str("aadhaar_last4", last4(result.AadhaarNumber)).Msg("nominee found in person store")
			if result.FullName != "" && !utils.NamesMatch(person.FullName, result.FullName) {
				s.log.Warn().
					Float64("similarity", utils.NameSimilarity(person.FullName, result.FullName)).
					Msg("stored nominee name differs from document")
			}
			return &dto.AadhaarOCRResponse{AadhaarRecord: person.Record(), Source: dto.SourceDB}, nil
		case errors.Is(err, dto.ErrPersonNotFound):
			s.log.Debug().Msg("nominee not registered, using OCR result")
		default:
			s.log.Warn().Err(err).Msg("person lookup failed, using OCR result")
		}
	}

	return result, nil
}

func (s *AadhaarService) extract(ctx context.Context, data []byte, mimeType, password string, dob utils.DOBStrategy) (*dto.AadhaarOCRResponse, error) {
	switch {
	case strings.Contains(mimeType, "pdf"):
		return s.extractFromPDF(ctx, data, password, dob)
	case strings.HasPrefix(mimeType, "image/"):
		return s.extractFromImage(ctx, data, dob)
	default:
		return nil, fmt.Errorf("%w: %s", dto.ErrUnsupportedMedia, mimeType)
	}
}

func (s *AadhaarService) extractFromImage(ctx context.Context, data []byte, dob utils.DOBStrategy) (*dto.AadhaarOCRResponse, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Formats the stdlib cannot decode (e.g. WebP) still go to OCR.
		s.log.Debug().Err(err).Msg("image decode failed, skipping QR")
	} else if rec, err := decodeQR(img); err == nil {
		s.log.Info().Msg("extracted Aadhaar data from QR code")
		return &dto.AadhaarOCRResponse{AadhaarRecord: rec, Source: dto.SourceQR}, nil
	} else {
		s.log.Debug().Err(err).Msg("no usable QR code, falling back to OCR")
	}

	lines, err := s.recognize(ctx, data)
	if err != nil {
		return nil, err
	}

	return parseLines(lines, dob, dto.SourceOCR)
}

func (s *AadhaarService) extractFromPDF(ctx context.Context, data []byte, password string, dob utils.DOBStrategy) (*dto.AadhaarOCRResponse, error) {
	// e-Aadhaar letters carry a text layer; it beats OCR when present.
	lines, err := s.pdf.ExtractLines(data, password)
	if err != nil {
		if errors.Is(err, dto.ErrPDFPassword) {
			return nil, err
		}
		s.log.Warn().Err(err).Msg("PDF text layer unreadable")
	} else if len(lines) > 0 {
		res, err := parseLines(lines, dob, dto.SourcePDF)
		if err == nil && res.AadhaarNumber != "" {
			return res, nil
		}
	}

	images, err := s.pdf.ExtractImages(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no images found in PDF", dto.ErrNoTextRecognized)
	}

	var all []string
	for idx, page := range images {
		if rec, err := decodeQR(page); err == nil {
			s.log.Info().Int("image", idx+1).Msg("extracted Aadhaar data from QR code")
			return &dto.AadhaarOCRResponse{AadhaarRecord: rec, Source: dto.SourceQR}, nil
		}

		buf := new(bytes.Buffer)
		if err := png.Encode(buf, page); err != nil {
			s.log.Warn().Err(err).Int("image", idx+1).Msg("failed to encode PDF image")
			continue
		}

		pageLines, err := s.recognize(ctx, buf.Bytes())
		if err != nil {
			s.log.Warn().Err(err).Int("image", idx+1).Msg("OCR failed for PDF image")
			continue
		}
		all = append(all, pageLines...)
	}

	if all == nil {
		return nil, fmt.Errorf("%w: OCR failed on every PDF image", dto.ErrNoTextRecognized)
	}
	return parseLines(all, dob, dto.SourceOCR)
}

// recognize tries each engine in order and returns the first non-empty
// result. It only fails when every engine returned an error.
func (s *AadhaarService) recognize(ctx context.Context, data []byte) ([]string, error) {
	if len(s.recognizers) == 0 {
		return nil, fmt.Errorf("%w: no OCR engine configured", dto.ErrNoTextRecognized)
	}

	var (
		errs    []error
		emptyOK bool
	)
	for _, r := range s.recognizers {
		lines, err := r.RecognizeLines(ctx, data)
		if err != nil {
			s.log.Warn().Err(err).Str("engine", r.Name()).Msg("OCR engine failed")
			errs = append(errs, err)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		if hasText(lines) {
			s.log.Debug().Str("engine", r.Name()).Int("lines", len(lines)).Msg("OCR succeeded")
			return lines, nil
		}
		s.log.Debug().Str("engine", r.Name()).Msg("OCR returned no text")
		emptyOK = true
	}

	// A blank card is a valid, all-empty result rather than a failure.
	if emptyOK {
		return []string{}, nil
	}
	return nil, fmt.Errorf("%w: %w", dto.ErrNoTextRecognized, errors.Join(errs...))
}

func parseLines(lines []string, dob utils.DOBStrategy, source string) (*dto.AadhaarOCRResponse, error) {
	fields, err := utils.ExtractFields(lines, dob)
	if err != nil {
		return nil, err
	}
	return &dto.AadhaarOCRResponse{AadhaarRecord: fields.Record(), Source: source}, nil
}

// decodeQR reads the print-letter QR code (XML payload). The newer signed
// "Secure QR" is a compressed number, not XML, and is reported as an error
// so the caller falls back to OCR.
func decodeQR(img image.Image) (dto.AadhaarRecord, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return dto.AadhaarRecord{}, fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return dto.AadhaarRecord{}, fmt.Errorf("failed to decode QR code: %w", err)
	}

	var qrData dto.AadhaarQRData
	if err := xml.Unmarshal([]byte(result.GetText()), &qrData); err != nil {
		return dto.AadhaarRecord{}, fmt.Errorf("failed to parse QR XML data: %w", err)
	}

	rec := qrData.Record()
	if rec.AadhaarNumber == "" && rec.FullName == "" {
		return dto.AadhaarRecord{}, fmt.Errorf("QR payload carries no identity fields")
	}
	return rec, nil
}

func hasText(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

func last4(aadhaar string) string {
	if len(aadhaar) >= 4 {
		return aadhaar[len(aadhaar)-4:]
	}
	return aadhaar
}
