package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	modelsURI   = "config://models"
	settingsURI = "config://settings"
)

var (
	supportedSizes   = []string{"512x512", "768x768", "1024x1024", "1024x1792", "1792x1024"}
	supportedRatios  = []string{"16:9", "9:16", "1:1", "adaptive"}
	maxVideoDuration = "10s"
)

type modelInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

type modelCatalog struct {
	TextToImage  []modelInfo `json:"text_to_image"`
	ImageToVideo []modelInfo `json:"image_to_video"`
	TextToVideo  []modelInfo `json:"text_to_video"`
}

type settings struct {
	BaseURL          string   `json:"base_url"`
	APIKeySet        bool     `json:"api_key_set"`
	SupportedSizes   []string `json:"supported_image_sizes"`
	SupportedRatios  []string `json:"supported_video_ratios"`
	DefaultImageSize string   `json:"default_image_size"`
	DefaultDuration  string   `json:"default_video_duration"`
	DefaultRatio     string   `json:"default_video_ratio"`
	MaxVideoDuration string   `json:"max_video_duration"`
	PollInterval     string   `json:"poll_interval"`
	PollMaxAttempts  int      `json:"poll_max_attempts"`
	Transport        string   `json:"transport"`
	S3Enabled        bool     `json:"s3_enabled"`
}

func (s *Server) registerResources(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         modelsURI,
		Name:        "models",
		Description: "Doubao models used by each tool, with the configured defaults",
		MIMEType:    "application/json",
	}, s.readModels)

	server.AddResource(&mcp.Resource{
		URI:         settingsURI,
		Name:        "settings",
		Description: "Active server settings and supported parameter values. The API key is never included",
		MIMEType:    "application/json",
	}, s.readSettings)
}

func (s *Server) modelCatalog() modelCatalog {
	return modelCatalog{
		TextToImage: []modelInfo{
			{ID: s.config.ImageModel, Description: "Seedream text-to-image", Default: true},
		},
		ImageToVideo: []modelInfo{
			{ID: s.config.I2VModel, Description: "Seedance lite image-to-video", Default: true},
		},
		TextToVideo: []modelInfo{
			{ID: s.config.T2VModel, Description: "Seedance lite text-to-video", Default: true},
		},
	}
}

func (s *Server) currentSettings() settings {
	return settings{
		BaseURL:          s.config.BaseURL,
		APIKeySet:        s.config.APIKeySet(),
		SupportedSizes:   supportedSizes,
		SupportedRatios:  supportedRatios,
		DefaultImageSize: defaultImageSize,
		DefaultDuration:  defaultVideoDuration,
		DefaultRatio:     defaultVideoRatio,
		MaxVideoDuration: maxVideoDuration,
		PollInterval:     s.config.PollInterval.String(),
		PollMaxAttempts:  s.config.PollMaxAttempts,
		Transport:        s.config.Transport,
		S3Enabled:        s.config.S3Enabled,
	}
}

func (s *Server) readModels(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(modelsURI, s.modelCatalog())
}

func (s *Server) readSettings(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(settingsURI, s.currentSettings())
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
