package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSettings_HidesKey(t *testing.T) {
	config := testConfig("https://ark.example.com/api/v3")
	config.APIKey = "super-secret"
	s := newServer(config, nil)

	result, err := s.readSettings(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	content := result.Contents[0]
	assert.Equal(t, settingsURI, content.URI)
	assert.Equal(t, "application/json", content.MIMEType)
	assert.NotContains(t, content.Text, "super-secret")

	var got settings
	require.NoError(t, json.Unmarshal([]byte(content.Text), &got))
	assert.True(t, got.APIKeySet)
	assert.Equal(t, "https://ark.example.com/api/v3", got.BaseURL)
	assert.Contains(t, got.SupportedSizes, "1024x1024")
	assert.Contains(t, got.SupportedRatios, "adaptive")
	assert.Equal(t, "10s", got.MaxVideoDuration)
	assert.Equal(t, 5, got.PollMaxAttempts)

	config.APIKey = ""
	result, err = s.readSettings(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.False(t, got.APIKeySet)
}

func TestReadModels_UsesConfiguredDefaults(t *testing.T) {
	config := testConfig("http://unused")
	config.T2VModel = "doubao-seedance-1-0-pro-250528"
	s := newServer(config, nil)

	result, err := s.readModels(context.Background(), nil)
	require.NoError(t, err)

	var got modelCatalog
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	require.Len(t, got.TextToVideo, 1)
	assert.Equal(t, "doubao-seedance-1-0-pro-250528", got.TextToVideo[0].ID)
	assert.Equal(t, config.ImageModel, got.TextToImage[0].ID)
	assert.Equal(t, config.I2VModel, got.ImageToVideo[0].ID)
}

func TestResources_OverMCP(t *testing.T) {
	session := connectClient(t, newServer(testConfig("http://unused"), nil))

	list, err := session.ListResources(context.Background(), &mcp.ListResourcesParams{})
	require.NoError(t, err)
	var uris []string
	for _, r := range list.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{modelsURI, settingsURI}, uris)

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: modelsURI})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "text_to_image")
}
