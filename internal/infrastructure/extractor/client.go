// Package extractor calls the external document-extraction API: the AI
// collaborator that OCRs an uploaded supplies list into raw item names.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/listafacil/backend/internal/domain"
)

// Client handles communication with the extraction API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates an extraction API client. Extraction involves OCR and a
// model call, so the request timeout is generous.
func NewClient(apiKey, baseURL string) *Client {
	// The provider allows a sustained 1 req/s with short bursts.
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

type extractRequest struct {
	DocumentDataURI string `json:"documentDataUri"`
}

type extractResponse struct {
	ExtractedItems []string `json:"extractedItems"`
}

// ExtractItems sends the document to the extraction API and returns the raw
// item names it found. Transient failures are retried up to three times
// with backoff; client errors other than 429 are not retried.
func (c *Client) ExtractItems(ctx context.Context, documentDataURI string) ([]string, error) {
	payload, err := json.Marshal(extractRequest{DocumentDataURI: documentDataURI})
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/extract", c.baseURL)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create extraction request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("User-Agent", "Listafacil/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[EXTRACT] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrExtractorFailure, err)
			sleepBackoff(ctx, attempt)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[EXTRACT] API error (attempt %d) - status: %d, body: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrExtractorFailure, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			sleepBackoff(ctx, attempt)
			continue
		}

		var parsed extractResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("decode extraction response: %w", err)
		}

		if c.debug {
			log.Printf("[EXTRACT] extracted %d item(s)", len(parsed.ExtractedItems))
		}
		return parsed.ExtractedItems, nil
	}

	return nil, lastErr
}

func sleepBackoff(ctx context.Context, attempt int) {
	select {
	case <-time.After(time.Duration(attempt*500) * time.Millisecond):
	case <-ctx.Done():
	}
}
