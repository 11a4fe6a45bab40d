package gemini_adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Vehi"},{"text":"cle"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "secret", Model: "test-model", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	answer, err := client.Generate(context.Background(), "Classify.", "Toyota Axio")
	require.NoError(t, err)
	assert.Equal(t, "Vehicle", answer)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "Classify.\n\nUser Input:\nToyota Axio", got.Contents[0].Parts[0].Text)
	assert.Zero(t, got.GenerationConfig.Temperature)
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		timeout time.Duration
		delay   time.Duration
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"quota"}`},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`},
		{name: "broken json", status: http.StatusOK, body: `{"candidates":`},
		{name: "timeout", status: http.StatusOK, body: `{}`, timeout: 20 * time.Millisecond, delay: 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.delay > 0 {
					select {
					case <-time.After(tt.delay):
					case <-r.Context().Done():
						return
					}
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(Config{APIKey: "k", Model: "m", BaseURL: server.URL, Timeout: tt.timeout})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), "i", "x")
			assert.Error(t, err)
		})
	}
}

func TestNewClient_RequiresKeyAndModel(t *testing.T) {
	_, err := NewClient(Config{Model: "m"})
	assert.Error(t, err)
	_, err = NewClient(Config{APIKey: "k"})
	assert.Error(t, err)
}
