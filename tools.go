package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"doubao-mcp/internal/ark"
	"doubao-mcp/internal/metrics"
	"doubao-mcp/internal/storage"
)

const (
	defaultImageSize     = "1024x1024"
	defaultVideoDuration = "5"
	defaultVideoRatio    = "16:9"
	fallbackImageMIME    = "image/jpeg"
)

var errInvalidInput = errors.New("invalid input")

// Input types for tools
type TextToImageInput struct {
	Prompt    string `json:"prompt" jsonschema:"Text description of the image to generate"`
	Size      string `json:"size,omitempty" jsonschema:"Image size as WIDTHxHEIGHT, e.g. 1024x1024 (default)"`
	Model     string `json:"model,omitempty" jsonschema:"Ark model id, defaults to doubao-seedream-3-0-t2i-250415"`
	Watermark *bool  `json:"watermark,omitempty" jsonschema:"Whether the vendor adds its watermark to the image"`
}

type ImageToVideoInput struct {
	Prompt      string `json:"prompt" jsonschema:"Text description of how the image should move"`
	ImageBase64 string `json:"image_base64,omitempty" jsonschema:"Base64 encoded starting frame. Either image_base64 or image_path is required"`
	ImagePath   string `json:"image_path,omitempty" jsonschema:"Local file path or S3 object key of the starting frame. Either image_base64 or image_path is required"`
	Duration    string `json:"duration,omitempty" jsonschema:"Video length in seconds, default 5"`
	Ratio       string `json:"ratio,omitempty" jsonschema:"Video aspect ratio such as 16:9 (default), 9:16, 1:1 or adaptive"`
	Model       string `json:"model,omitempty" jsonschema:"Ark model id, defaults to doubao-seedance-1-0-lite-i2v-250428"`
}

type TextToVideoInput struct {
	Prompt   string `json:"prompt" jsonschema:"Text description of the video to generate"`
	Duration string `json:"duration,omitempty" jsonschema:"Video length in seconds, default 5"`
	Ratio    string `json:"ratio,omitempty" jsonschema:"Video aspect ratio such as 16:9 (default), 9:16 or 1:1"`
	Model    string `json:"model,omitempty" jsonschema:"Ark model id, defaults to doubao-seedance-1-0-lite-t2v-250428"`
}

type EncodeImageInput struct {
	ImagePath string `json:"image_path" jsonschema:"Path of the image file to encode. Relative paths may also name an S3 object key when S3 is configured"`
}

// Envelope is the result of every tool. Success alone tells the outcome:
// on success only the result fields and Message are set, on failure only Error.
type Envelope struct {
	Success      bool   `json:"success"`
	ImageURL     string `json:"image_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	Base64String string `json:"base64_string,omitempty"`
	MIMEType     string `json:"mime_type,omitempty"`
	TaskID       string `json:"task_id,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

func failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "text_to_image",
		Description: "Generate an image from a text prompt with the Doubao Seedream model. Returns the URL of the generated image.",
	}, s.handleTextToImage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "image_to_video",
		Description: "Animate an image into a video with the Doubao Seedance model. Pass the starting frame as base64 (image_base64) or as a file path / S3 object key (image_path). Blocks until the video is ready (up to about 5 minutes) and returns its URL.",
	}, s.handleImageToVideo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "text_to_video",
		Description: "Generate a video from a text prompt with the Doubao Seedance model. Blocks until the video is ready (up to about 5 minutes) and returns its URL.",
	}, s.handleTextToVideo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "encode_image_to_base64",
		Description: "Read a local image file and return its base64 encoding, ready to pass to image_to_video.",
	}, s.handleEncodeImage)
}

// runTool turns every error or panic from fn into a failure envelope and
// records the call.
func (s *Server) runTool(ctx context.Context, tool, failurePrefix string, fn func(context.Context, zerolog.Logger) (Envelope, error)) (env Envelope) {
	logger := log.With().Str("tool", tool).Str("call_id", uuid.NewString()).Logger()
	start := time.Now()
	status := "success"

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Tool handler panicked")
			env = failure(fmt.Sprintf("%s: internal error: %v", failurePrefix, r))
			status = "panic"
		}
		elapsed := time.Since(start)
		metrics.RecordToolCall(tool, status, elapsed.Seconds())
		event := logger.Info()
		if !env.Success {
			event = logger.Warn().Str("error", env.Error)
		}
		event.Str("status", status).Dur("elapsed", elapsed).Msg("Tool call finished")
	}()

	logger.Info().Msg("Tool call received")
	result, err := fn(ctx, logger)
	if err != nil {
		status = errorKind(err)
		return failure(fmt.Sprintf("%s: %v", failurePrefix, err))
	}
	return result
}

func toolResult(env Envelope) *mcp.CallToolResult {
	return &mcp.CallToolResult{IsError: !env.Success}
}

// errorKind labels err for metrics and logs.
func errorKind(err error) string {
	var (
		apiErr       *ark.APIError
		transportErr *ark.TransportError
		pathErr      *fs.PathError
	)
	switch {
	case errors.Is(err, errInvalidInput):
		return "invalid_input"
	case errors.Is(err, ark.ErrMissingCredential):
		return "config_error"
	case ark.IsTaskFailure(err):
		return "task_failed"
	case errors.Is(err, ark.ErrTaskTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &apiErr),
		errors.Is(err, ark.ErrMissingTaskID),
		errors.Is(err, ark.ErrNoImageData),
		errors.Is(err, ark.ErrMalformedResponse):
		return "vendor_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.Is(err, storage.ErrNotFound), errors.As(err, &pathErr):
		return "io_error"
	default:
		return "error"
	}
}

func (s *Server) handleTextToImage(ctx context.Context, req *mcp.CallToolRequest, input TextToImageInput) (*mcp.CallToolResult, Envelope, error) {
	env := s.runTool(ctx, "text_to_image", "error generating image", func(ctx context.Context, logger zerolog.Logger) (Envelope, error) {
		if strings.TrimSpace(input.Prompt) == "" {
			return Envelope{}, fmt.Errorf("%w: prompt is required", errInvalidInput)
		}
		size := valueOr(input.Size, defaultImageSize)
		model := valueOr(input.Model, s.config.ImageModel)

		client, err := s.newClient()
		if err != nil {
			return Envelope{}, err
		}

		logger.Info().Str("model", model).Str("size", size).Str("prompt", input.Prompt).Msg("Generating image")
		imageURL, err := client.GenerateImage(ctx, ark.ImageRequest{
			Model:     model,
			Prompt:    input.Prompt,
			Size:      size,
			Watermark: input.Watermark,
		})
		if err != nil {
			return Envelope{}, err
		}

		return Envelope{
			Success:  true,
			ImageURL: imageURL,
			Message:  "image generated successfully",
		}, nil
	})
	return toolResult(env), env, nil
}

func (s *Server) handleImageToVideo(ctx context.Context, req *mcp.CallToolRequest, input ImageToVideoInput) (*mcp.CallToolResult, Envelope, error) {
	env := s.runTool(ctx, "image_to_video", "error generating video", func(ctx context.Context, logger zerolog.Logger) (Envelope, error) {
		if strings.TrimSpace(input.Prompt) == "" {
			return Envelope{}, fmt.Errorf("%w: prompt is required", errInvalidInput)
		}
		if (input.ImageBase64 == "") == (input.ImagePath == "") {
			return Envelope{}, fmt.Errorf("%w: exactly one of image_base64 or image_path is required", errInvalidInput)
		}
		duration := valueOr(input.Duration, defaultVideoDuration)
		ratio := valueOr(input.Ratio, defaultVideoRatio)
		model := valueOr(input.Model, s.config.I2VModel)

		client, err := s.newClient()
		if err != nil {
			return Envelope{}, err
		}

		var imageURL string
		if input.ImagePath != "" {
			obj, err := s.storage.Read(ctx, input.ImagePath)
			if err != nil {
				return Envelope{}, fmt.Errorf("failed to read image %s: %w", input.ImagePath, err)
			}
			imageURL = ark.DataURL(imageMIME(obj.MIMEType), base64.StdEncoding.EncodeToString(obj.Data))
		} else {
			imageURL = base64ImageURL(input.ImageBase64)
		}

		prompt := ark.AppendDirectives(input.Prompt, ratio, duration)
		logger.Info().Str("model", model).Str("prompt", prompt).Msg("Generating image-to-video")

		return s.generateVideo(ctx, logger, client, ark.TaskRequest{
			Model: model,
			Content: []ark.ContentItem{
				ark.TextContent(prompt),
				ark.ImageContent(imageURL),
			},
		})
	})
	return toolResult(env), env, nil
}

func (s *Server) handleTextToVideo(ctx context.Context, req *mcp.CallToolRequest, input TextToVideoInput) (*mcp.CallToolResult, Envelope, error) {
	env := s.runTool(ctx, "text_to_video", "error generating video", func(ctx context.Context, logger zerolog.Logger) (Envelope, error) {
		if strings.TrimSpace(input.Prompt) == "" {
			return Envelope{}, fmt.Errorf("%w: prompt is required", errInvalidInput)
		}
		duration := valueOr(input.Duration, defaultVideoDuration)
		ratio := valueOr(input.Ratio, defaultVideoRatio)
		model := valueOr(input.Model, s.config.T2VModel)

		client, err := s.newClient()
		if err != nil {
			return Envelope{}, err
		}

		prompt := ark.AppendDirectives(input.Prompt, ratio, duration)
		logger.Info().Str("model", model).Str("prompt", prompt).Msg("Generating text-to-video")

		return s.generateVideo(ctx, logger, client, ark.TaskRequest{
			Model:   model,
			Content: []ark.ContentItem{ark.TextContent(prompt)},
		})
	})
	return toolResult(env), env, nil
}

// generateVideo submits the task and blocks until the poller settles it.
func (s *Server) generateVideo(ctx context.Context, logger zerolog.Logger, client *ark.Client, req ark.TaskRequest) (Envelope, error) {
	taskID, err := client.SubmitTask(ctx, req)
	if err != nil {
		return Envelope{}, err
	}
	logger.Info().Str("task_id", taskID).Msg("Video generation task created")

	task, err := s.newPoller(client).Poll(ctx, taskID)
	if err != nil {
		return Envelope{}, fmt.Errorf("task %s: %w", taskID, err)
	}

	videoURL := task.VideoURL()
	if videoURL == "" {
		return Envelope{}, fmt.Errorf("task %s: %w: succeeded without a video_url", taskID, ark.ErrMalformedResponse)
	}

	return Envelope{
		Success:  true,
		VideoURL: videoURL,
		TaskID:   taskID,
		Message:  "video generated successfully",
	}, nil
}

func (s *Server) handleEncodeImage(ctx context.Context, req *mcp.CallToolRequest, input EncodeImageInput) (*mcp.CallToolResult, Envelope, error) {
	env := s.runTool(ctx, "encode_image_to_base64", "failed to encode image", func(ctx context.Context, logger zerolog.Logger) (Envelope, error) {
		if strings.TrimSpace(input.ImagePath) == "" {
			return Envelope{}, fmt.Errorf("%w: image_path is required", errInvalidInput)
		}

		obj, err := s.storage.Read(ctx, input.ImagePath)
		if err != nil {
			return Envelope{}, err
		}
		if obj.Size == 0 {
			return Envelope{}, fmt.Errorf("%w: %s is empty", errInvalidInput, obj.Key)
		}
		logger.Info().Str("path", obj.Key).Int64("bytes", obj.Size).Str("mime_type", obj.MIMEType).Msg("Encoded image")

		return Envelope{
			Success:      true,
			Base64String: base64.StdEncoding.EncodeToString(obj.Data),
			MIMEType:     obj.MIMEType,
			Message:      "image encoded successfully",
		}, nil
	})
	return toolResult(env), env, nil
}

// base64ImageURL wraps caller supplied base64 in a data URL. Whitespace,
// including line wrapping, is dropped. Full data URLs pass through; otherwise
// the MIME type is sniffed from the leading bytes.
func base64ImageURL(b64 string) string {
	b64 = strings.Join(strings.Fields(b64), "")
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	head := b64
	if len(head) > 1024 {
		head = head[:1024]
	}
	mimeType := fallbackImageMIME
	if raw, err := base64.StdEncoding.DecodeString(head); err == nil {
		mimeType = imageMIME(storage.DetectMIME(raw))
	}
	return ark.DataURL(mimeType, b64)
}

func imageMIME(detected string) string {
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	return fallbackImageMIME
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
