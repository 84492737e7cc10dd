package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	e := New(Config{})

	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Equal(t, DefaultDimensions, e.Dimensions())
	assert.Equal(t, DefaultBaseURL, e.baseURL)
	assert.NoError(t, e.Close())
}

func TestEmbedder_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, "hello world", req.Prompt)

		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.5, -0.25, 1}})
	}))
	defer server.Close()

	e := New(Config{BaseURL: server.URL, Model: "all-minilm", Dimensions: 3})

	vec, err := e.Embed(context.Background(), "hello world")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vec)
}

func TestEmbedder_Embed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			want: "status 404",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			want: "decode response",
		},
		{
			name: "empty embedding",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"embedding":[]}`))
			},
			want: "empty embedding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := New(Config{BaseURL: server.URL}).Embed(context.Background(), "x")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEmbedder_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.NoError(t, New(Config{BaseURL: server.URL}).Ping(context.Background()))

	server.Close()
	assert.Error(t, New(Config{BaseURL: server.URL}).Ping(context.Background()))
}
