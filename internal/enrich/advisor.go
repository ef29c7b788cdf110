// Package enrich calls the external AI advisory service that turns a batch
// of security events into remediation recommendations. The service is an
// opaque collaborator: any failure degrades to an empty recommendation list
// with the error surfaced, never blocking the pattern-matched baseline.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/log-sentinel/backend/internal/models"
)

const defaultTimeout = 15 * time.Second

// maxBatchEvents caps how many events are sent per advisory call.
const maxBatchEvents = 200

// Advisor is a client for the enrichment endpoint.
type Advisor struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithTimeout sets the HTTP client timeout. Default: 15s.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) { a.client.Timeout = d }
}

// New creates an Advisor targeting the given endpoint with the given API
// credential.
func New(endpoint, apiKey string, opts ...Option) *Advisor {
	a := &Advisor{
		client:   &http.Client{Timeout: defaultTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type adviseRequest struct {
	Events []models.SecurityEvent `json:"events"`
}

type adviseResponse struct {
	Recommendations []models.Recommendation `json:"recommendations"`
}

// Advise posts the events batch and returns the service's recommendations.
// On any transport, HTTP, or decode failure the recommendation list is nil
// and the error describes the failure.
func (a *Advisor) Advise(ctx context.Context, events []models.SecurityEvent) ([]models.Recommendation, error) {
	if len(events) > maxBatchEvents {
		events = events[:maxBatchEvents]
	}

	body, err := json.Marshal(adviseRequest{Events: events})
	if err != nil {
		return nil, fmt.Errorf("encoding enrichment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building enrichment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichment call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("enrichment service returned %d: %s", resp.StatusCode, string(snippet))
	}

	var decoded adviseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding enrichment response: %w", err)
	}
	if decoded.Recommendations == nil {
		decoded.Recommendations = []models.Recommendation{}
	}
	return decoded.Recommendations, nil
}
