package vision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenAIClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [
				{"message": {"content": "vintage, mid-century modern, cozy, gift for mom"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewOpenAI("test-key", 600, testLogger())
	defer client.Close()
	client.baseURL = server.URL

	analysis, err := client.Analyze(context.Background(), "https://img.example.com/lamp.jpg")
	require.NoError(t, err)
	assert.Equal(t, "openai", analysis.Provider)
	assert.Equal(t, []string{"vintage", "mid-century modern", "cozy", "gift for mom"}, analysis.Terms)
}

func TestOpenAIClient_Analyze_BracketedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "[\"Rustic\", \"Farmhouse\"]"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAI("test-key", 600, testLogger())
	defer client.Close()
	client.baseURL = server.URL

	analysis, err := client.Analyze(context.Background(), "https://img.example.com/table.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rustic", "Farmhouse"}, analysis.Terms)
}

func TestOpenAIClient_Analyze_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"server error", http.StatusInternalServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewOpenAI("test-key", 600, testLogger())
			defer client.Close()
			client.baseURL = server.URL

			_, err := client.Analyze(context.Background(), "https://img.example.com/x.jpg")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var visionErr *Error
			require.ErrorAs(t, err, &visionErr)
			assert.Equal(t, "analyze", visionErr.Op)
			assert.Equal(t, "openai", visionErr.Provider)
		})
	}
}

func TestGoogleClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/images:annotate", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"responses": [
				{
					"labelAnnotations": [
						{"description": "Furniture", "score": 0.97},
						{"description": "Antique", "score": 0.85},
						{"description": "Rectangle", "score": 0.42}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewGoogle("test-key", 600, testLogger())
	defer client.Close()
	client.baseURL = server.URL

	analysis, err := client.Analyze(context.Background(), "https://img.example.com/dresser.jpg")
	require.NoError(t, err)
	assert.Equal(t, "google", analysis.Provider)
	// Low-confidence labels are dropped.
	assert.Equal(t, []string{"Furniture", "Antique"}, analysis.Terms)
}

func TestGoogleClient_Analyze_AnnotateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses": [{"error": {"code": 7, "message": "image fetch failed"}}]}`))
	}))
	defer server.Close()

	client := NewGoogle("test-key", 600, testLogger())
	defer client.Close()
	client.baseURL = server.URL

	_, err := client.Analyze(context.Background(), "https://img.example.com/missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image fetch failed")
}

type fakeAnalyzer struct {
	name  string
	terms []string
	err   error
}

func (f *fakeAnalyzer) Name() string { return f.name }

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*Analysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Analysis{Provider: f.name, Terms: f.terms}, nil
}

func TestAnalyzeAll_AllSettled(t *testing.T) {
	analyzers := []Analyzer{
		&fakeAnalyzer{name: "openai", err: errors.New("boom")},
		&fakeAnalyzer{name: "google", terms: []string{"Retro", "Lamp"}},
	}

	results := AnalyzeAll(context.Background(), analyzers, "https://img.example.com/lamp.jpg", testLogger())
	require.Len(t, results, 2)

	// One provider failing never hides the other's answer.
	assert.Equal(t, "openai", results[0].Provider)
	assert.Error(t, results[0].Err)
	assert.Equal(t, "google", results[1].Provider)
	require.NoError(t, results[1].Err)
	assert.Equal(t, []string{"Retro", "Lamp"}, results[1].Analysis.Terms)

	lists := SucceededTerms(results)
	require.Len(t, lists, 1)
	assert.Equal(t, []string{"Retro", "Lamp"}, lists[0])
}

func TestAnalyzeAll_Empty(t *testing.T) {
	results := AnalyzeAll(context.Background(), nil, "https://img.example.com/x.jpg", testLogger())
	assert.Empty(t, results)
	assert.Empty(t, SucceededTerms(results))
}
