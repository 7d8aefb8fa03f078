package ark

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage_Success(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/images/generations"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"doubao-seedream-3-0-t2i-250415","created":1735689600,"data":[{"url":"https://cdn.example.com/cat.png","size":"1024x1024"}]}`))
	})

	url, err := client.GenerateImage(context.Background(), ImageRequest{
		Model:  "doubao-seedream-3-0-t2i-250415",
		Prompt: "a cat in a teacup",
		Size:   "1024x1024",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cat.png", url)
	assert.Equal(t, "a cat in a teacup", body["prompt"])
	assert.Equal(t, "1024x1024", body["size"])
	assert.Equal(t, "url", body["response_format"])
}

func TestGenerateImage_NoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"m","created":1,"data":[]}`))
	})

	_, err := client.GenerateImage(context.Background(), ImageRequest{Model: "m", Prompt: "p"})
	assert.True(t, errors.Is(err, ErrNoImageData))
}

func TestGenerateImage_VendorRejects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"InvalidParameter","message":"size is invalid"}}`))
	})

	url, err := client.GenerateImage(context.Background(), ImageRequest{Model: "m", Prompt: "p", Size: "1x1"})
	assert.Empty(t, url)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), err.Error())
	assert.Equal(t, "generate", apiErr.Op)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "size is invalid")

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
}

func TestGenerateImage_Unreachable(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1/api/v3", Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.GenerateImage(context.Background(), ImageRequest{Model: "m", Prompt: "p"})
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr), err.Error())
}
