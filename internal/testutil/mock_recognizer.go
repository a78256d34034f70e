// Package testutil provides shared test helpers and mocks for docanon tests.
package testutil

import (
	"context"
	"sync"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/recognize"
)

// MockRecognizer implements recognize.Recognizer for tests without a live
// model service. Entities maps chunk text to canned chunk-local results;
// Func, when set, takes precedence and computes results per chunk. Set Err
// to simulate recognizer failures. Received chunks are recorded for
// assertions.
type MockRecognizer struct {
	RecognizerName string                            // identifier; empty = "mock"
	Entities       map[string][]recognize.Entity     // canned results keyed by chunk text
	Func           func(text string) []recognize.Entity // overrides Entities when set
	Err            error                             // if set, Recognize returns this error

	mu     sync.Mutex
	Chunks []string // chunks received, in call order
}

// Name returns the recognizer identifier (implements recognize.Recognizer).
func (m *MockRecognizer) Name() string {
	if m.RecognizerName == "" {
		return "mock"
	}
	return m.RecognizerName
}

// Recognize returns canned entities for the chunk or the configured error.
func (m *MockRecognizer) Recognize(_ context.Context, text string) ([]recognize.Entity, error) {
	m.mu.Lock()
	m.Chunks = append(m.Chunks, text)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Func != nil {
		return m.Func(text), nil
	}
	return m.Entities[text], nil
}
