package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/detect"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/recognize"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/store"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	srv := NewServer(
		recognize.NewRuleRecognizer(),
		detect.MustNewDetector(),
		0.5,
		recognize.DefaultMaxChunkWords,
		opts...,
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postAnonymize(t *testing.T, ts *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/anonymize", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/v1/health"} {
		resp, err := ts.Client().Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "rules", body["recognizer"])
	}
}

func TestServer_Anonymize(t *testing.T) {
	ts := newTestServer(t)

	resp := postAnonymize(t, ts,
		`{"text":"John Smith can be reached at john@example.com or 555-123-4567."}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		RunID          string            `json:"run_id"`
		AnonymizedText string            `json:"anonymized_text"`
		Statistics     struct {
			TotalEntities int            `json:"total_entities"`
			ByCategory    map[string]int `json:"by_category"`
		} `json:"statistics"`
		EntityMapping map[string]string `json:"entity_mapping"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Empty(t, body.RunID, "no run id without a store")
	assert.Contains(t, body.AnonymizedText, "[PER_1]")
	assert.Contains(t, body.AnonymizedText, "[EMAIL_1]")
	assert.Contains(t, body.AnonymizedText, "[PHONE_1]")
	assert.Equal(t, 3, body.Statistics.TotalEntities)
	assert.Equal(t, "john@example.com", body.EntityMapping["[EMAIL_1]"])
}

func TestServer_AnonymizeInvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	resp := postAnonymize(t, ts, `{"text": `, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_AnonymizeInvalidThreshold(t *testing.T) {
	ts := newTestServer(t)

	resp := postAnonymize(t, ts, `{"text":"hello","confidence_threshold":1.5}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid_config", body["error"])
}

func TestServer_AnonymizeEmptyText(t *testing.T) {
	ts := newTestServer(t)

	resp := postAnonymize(t, ts, `{"text":""}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AnonymizedText string `json:"anonymized_text"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "", body.AnonymizedText)
}

func TestServer_AuthRequired(t *testing.T) {
	ts := newTestServer(t, WithAPIKeys(map[string]string{"secret-key": "alice"}))

	t.Run("missing key", func(t *testing.T) {
		resp := postAnonymize(t, ts, `{"text":"hello"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong key", func(t *testing.T) {
		resp := postAnonymize(t, ts, `{"text":"hello"}`,
			map[string]string{"X-Docanon-Key": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("header key", func(t *testing.T) {
		resp := postAnonymize(t, ts, `{"text":"hello"}`,
			map[string]string{"X-Docanon-Key": "secret-key"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bearer key", func(t *testing.T) {
		resp := postAnonymize(t, ts, `{"text":"hello"}`,
			map[string]string{"Authorization": "Bearer secret-key"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("health stays open", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestServer_RateLimit(t *testing.T) {
	ts := newTestServer(t, WithRateLimiter(NewRateLimiter(1000, 1)))

	first := postAnonymize(t, ts, `{"text":"hello"}`, nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := postAnonymize(t, ts, `{"text":"hello"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "1", second.Header.Get("Retry-After"))
}

func TestServer_RunsWithoutStore(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/v1/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RunsLifecycle(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := newTestServer(t, WithStore(st))

	resp := postAnonymize(t, ts, `{"text":"Contact John Smith at john@example.com."}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.RunID)

	t.Run("list", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/v1/runs")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Runs []store.Record `json:"runs"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Runs, 1)
		assert.Equal(t, created.RunID, body.Runs[0].ID)
		assert.NotContains(t, body.Runs[0].InputHash, "John", "original text never persisted")
	})

	t.Run("get", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/v1/runs/" + created.RunID)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rec store.Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
		assert.Equal(t, created.RunID, rec.ID)
		assert.Equal(t, "rules", rec.Recognizer)
	})

	t.Run("get missing", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/v1/runs/no-such-id")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad limit", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/v1/runs?limit=zero")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_CORS(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/anonymize", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Docanon-Key")
}
