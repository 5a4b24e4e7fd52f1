package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/aadhaar-autofill/dto"
)

type fakeExtractor struct {
	resp  *dto.AadhaarOCRResponse
	err   error
	owner string
	pass  string
	mime  string
}

func (f *fakeExtractor) ExtractFromURL(ctx context.Context, imageURL, owner string) (*dto.AadhaarOCRResponse, error) {
	f.owner = owner
	return f.resp, f.err
}

func (f *fakeExtractor) ExtractFromDocument(ctx context.Context, data []byte, mimeType, password, owner string) (*dto.AadhaarOCRResponse, error) {
	f.owner, f.pass, f.mime = owner, password, mimeType
	return f.resp, f.err
}

type fakeStore struct {
	people map[string]*dto.Person
	err    error
}

func (f *fakeStore) SubmitPerson(ctx context.Context, req *dto.PersonSubmitRequest) (*dto.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &dto.Person{ID: int64(len(f.people) + 1), AadhaarNumber: req.AadhaarNumber}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.DOB != nil {
		p.DOB = *req.DOB
	}
	f.people[p.AadhaarNumber] = p
	return p, nil
}

func (f *fakeStore) GetPerson(ctx context.Context, aadhaar string) (*dto.Person, error) {
	if p, ok := f.people[aadhaar]; ok {
		return p, nil
	}
	return nil, dto.ErrPersonNotFound
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(ext AadhaarExtractor, store PersonStore) *gin.Engine {
	return NewRouter(
		NewAadhaarHandler(ext, 1<<20, zerolog.Nop()),
		NewPersonHandler(store, zerolog.Nop()),
		"http://localhost:5173",
	)
}

func sampleResponse() *dto.AadhaarOCRResponse {
	return &dto.AadhaarOCRResponse{
		AadhaarRecord: dto.AadhaarRecord{
			AadhaarNumber: "123456789012",
			FullName:      "Ramesh Kumar",
			Gender:        "Male",
			DOB:           "15/08/1990",
		},
		Source: dto.SourceOCR,
	}
}

func pngUpload(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "aadhaar.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeExtractor{}, &fakeStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestExtractFromURL(t *testing.T) {
	ext := &fakeExtractor{resp: sampleResponse()}
	router := newTestRouter(ext, &fakeStore{})

	body := `{"image_url":"https://example.com/aadhaar.png"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/aadhaar?owner=nominee", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.OwnerNominee, ext.owner)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "123456789012", got["aadhaar_number"])
	assert.Equal(t, "Ramesh Kumar", got["full_name"])
	assert.Equal(t, "", got["mobile_number"])
	assert.Equal(t, dto.SourceOCR, got["source"])
}

func TestExtractFromURLBadRequests(t *testing.T) {
	router := newTestRouter(&fakeExtractor{resp: sampleResponse()}, &fakeStore{})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing url", "/api/v1/ocr/aadhaar", `{}`},
		{"not a url", "/api/v1/ocr/aadhaar", `{"image_url":"aadhaar.png"}`},
		{"bad owner", "/api/v1/ocr/aadhaar?owner=spouse", `{"image_url":"https://example.com/a.png"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestExtractErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: timeout", dto.ErrImageFetch), http.StatusBadRequest},
		{dto.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{fmt.Errorf("%w: paddle down", dto.ErrNoTextRecognized), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: encrypted PDF: invalid password", dto.ErrPDFPassword), http.StatusBadRequest},
		{fmt.Errorf("password protected scan"), http.StatusInternalServerError},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := newTestRouter(&fakeExtractor{err: tt.err}, &fakeStore{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/aadhaar", bytes.NewBufferString(`{"image_url":"https://example.com/a.png"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}

func TestExtractFromUpload(t *testing.T) {
	ext := &fakeExtractor{resp: sampleResponse()}
	router := newTestRouter(ext, &fakeStore{})

	body, contentType := pngUpload(t, map[string]string{"owner": "member", "password": "RAME1990"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/aadhaar/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.OwnerMember, ext.owner)
	assert.Equal(t, "RAME1990", ext.pass)
	assert.Equal(t, "image/png", ext.mime)
}

func TestExtractFromUploadRejectsText(t *testing.T) {
	router := newTestRouter(&fakeExtractor{resp: sampleResponse()}, &fakeStore{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("just some text"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/aadhaar/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestPersonSubmitAndGet(t *testing.T) {
	store := &fakeStore{people: map[string]*dto.Person{}}
	router := newTestRouter(&fakeExtractor{}, store)

	body := `{"aadhaar_number":"123456789012","full_name":"Ramesh Kumar","dob":"1990-08-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/person/submit", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/person/by-aadhaar/123456789012", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Ramesh Kumar", got.FullName)
	assert.Equal(t, "1990-08-15", got.DOB)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/person/by-aadhaar/999999999999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPersonSubmitValidation(t *testing.T) {
	router := newTestRouter(&fakeExtractor{}, &fakeStore{err: dto.ErrInvalidAadhaar})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/person/submit", bytes.NewBufferString(`{"aadhaar_number":"12"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/person/submit", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeExtractor{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ocr/aadhaar", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
