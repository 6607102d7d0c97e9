package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelReply(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func setupAnnotator(t *testing.T, h http.HandlerFunc) Annotator {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	a, err := New(
		context.Background(),
		APIKeyOpt("test-key"),
		BaseURLOpt(srv.URL),
		HTTPClientOpt(srv.Client()),
		RetryOpt(retry.RetryConfig{
			MaxAttempts: 2,
			Backoff:     retry.LinearBackoff(time.Millisecond),
		}),
	)
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	_, err := New(context.Background())
	require.Error(t, err)
}

func TestAnnotator_Annotate(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		var prompt string
		a := setupAnnotator(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, ":generateContent") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var body struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
				prompt = body.Contents[0].Parts[0].Text
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(modelReply(
				`{"status":"FAIL","summary":"Casing is cracked","category":"Damage"}`,
			))
		})

		got, err := a.Annotate(context.Background(), "crack on the left side", "Pump Housing")
		require.NoError(t, err)
		assert.Equal(t, domain.Annotation{
			SuggestedStatus: domain.StatusFail,
			Summary:         "Casing is cracked",
			Category:        "Damage",
		}, got)
		assert.Contains(t, prompt, "Pump Housing")
		assert.Contains(t, prompt, "crack on the left side")
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var hits atomic.Int32
		a := setupAnnotator(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
		})

		_, err := a.Annotate(context.Background(), "notes", "product")
		require.Error(t, err)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("MalformedIsNotRetried", func(t *testing.T) {
		var hits atomic.Int32
		a := setupAnnotator(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(modelReply("not json at all"))
		})

		_, err := a.Annotate(context.Background(), "notes", "product")
		require.ErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestParseAnnotation(t *testing.T) {
	t.Run("Fenced", func(t *testing.T) {
		got, err := parseAnnotation("```json\n{\"status\":\"warning\",\"summary\":\" Label smudged \",\"category\":\"Labeling\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWarning, got.SuggestedStatus)
		assert.Equal(t, "Label smudged", got.Summary)
	})

	t.Run("UnknownStatusDefaultsToPass", func(t *testing.T) {
		got, err := parseAnnotation(`{"status":"GOOD","summary":"ok","category":"None"}`)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPass, got.SuggestedStatus)
	})

	t.Run("EmptySummary", func(t *testing.T) {
		_, err := parseAnnotation(`{"status":"PASS","summary":""}`)
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}
