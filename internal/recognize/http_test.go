package recognize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRecognizer_Recognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/ner", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req nerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dslim/bert-base-NER", req.Model)
		assert.Equal(t, "John Smith called.", req.Text)

		resp := nerResponse{Entities: []Entity{
			{Start: 0, End: 10, Label: "PER", Score: 0.97},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	r := NewHTTPRecognizer(srv.URL, "dslim/bert-base-NER")
	ents, err := r.Recognize(context.Background(), "John Smith called.")
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, Entity{Start: 0, End: 10, Label: "PER", Score: 0.97}, ents[0])
}

func TestHTTPRecognizer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewHTTPRecognizer(srv.URL, "dslim/bert-base-NER")
	_, err := r.Recognize(context.Background(), "some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestHTTPRecognizer_ConnectionRefused(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	r := NewHTTPRecognizer(srv.URL, "m")
	_, err := r.Recognize(context.Background(), "some text")
	assert.Error(t, err)
}

func TestHTTPRecognizer_BadResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	r := NewHTTPRecognizer(srv.URL, "m")
	_, err := r.Recognize(context.Background(), "some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding ner response")
}

func TestHTTPRecognizer_Defaults(t *testing.T) {
	r := NewHTTPRecognizer("", "m")
	assert.Equal(t, DefaultNERBaseURL, r.baseURL)
	assert.Equal(t, "http", r.Name())
}
