package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultNERBaseURL is where a local NER model service is expected to listen.
const DefaultNERBaseURL = "http://localhost:8000"

// HTTPRecognizer calls an external NER model service over HTTP. The service
// receives a chunk of text plus a model identifier and returns scored,
// labeled spans with offsets relative to the chunk.
type HTTPRecognizer struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewHTTPRecognizer creates an HTTP recognizer pointing at the given base
// URL. If baseURL is empty, DefaultNERBaseURL is used.
func NewHTTPRecognizer(baseURL, model string) *HTTPRecognizer {
	if baseURL == "" {
		baseURL = DefaultNERBaseURL
	}
	return &HTTPRecognizer{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{},
	}
}

// Name returns the recognizer identifier.
func (r *HTTPRecognizer) Name() string {
	return "http"
}

type nerRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type nerResponse struct {
	Entities []Entity `json:"entities"`
}

// Recognize sends the chunk to the model service and decodes its spans.
// Failures are surfaced to the caller, never masked.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	ctx, span := tracer.Start(ctx, "recognize.http",
		trace.WithAttributes(
			attribute.String("ner.model", r.model),
			attribute.Int("ner.chunk_chars", len(text)),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, TimeoutRecognize)
	defer cancel()

	body, err := json.Marshal(nerRequest{Model: r.model, Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshalling ner request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/ner", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ner request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("ner api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ner api returned %d: %s", resp.StatusCode, string(msg))
	}

	var apiResp nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decoding ner response: %w", err)
	}

	span.SetAttributes(attribute.Int("ner.entity_count", len(apiResp.Entities)))
	return apiResp.Entities, nil
}
