package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaddleClient talks to a PaddleOCR serving instance (ocr_system module).
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPaddleClient creates a new PaddleOCR HTTP client
func NewPaddleClient(apiURL string, timeout time.Duration) *PaddleClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the engine in logs.
func (p *PaddleClient) Name() string {
	return "paddle"
}

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleResponse struct {
	Results [][]struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

// RecognizeLines sends the image to PaddleOCR and returns the detected text
// lines in the order the server reports them.
func (p *PaddleClient) RecognizeLines(ctx context.Context, imageData []byte) ([]string, error) {
	payload, err := json.Marshal(paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
	})
	if err != nil {
		return nil, newOCRError(p.Name(), "marshal", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, newOCRError(p.Name(), "request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, newOCRError(p.Name(), "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, newOCRError(p.Name(), "request",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newOCRError(p.Name(), "decode response", err)
	}

	if len(result.Results) == 0 {
		return []string{}, nil
	}

	lines := make([]string, 0, len(result.Results[0]))
	for _, line := range result.Results[0] {
		lines = append(lines, line.Text)
	}
	return lines, nil
}
