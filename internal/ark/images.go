package ark

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/volcengine"

	"doubao-mcp/internal/metrics"
)

type ImageRequest struct {
	Model     string
	Prompt    string
	Size      string
	Watermark *bool
}

// GenerateImage asks for exactly one image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	genReq := model.GenerateImagesRequest{
		Model:          req.Model,
		Prompt:         req.Prompt,
		ResponseFormat: volcengine.String(model.GenerateImagesResponseFormatURL),
	}
	if req.Size != "" {
		genReq.Size = volcengine.String(req.Size)
	}
	if req.Watermark != nil {
		genReq.Watermark = volcengine.Bool(*req.Watermark)
	}

	start := time.Now()
	resp, err := c.images.GenerateImages(ctx, genReq)
	metrics.RecordVendorRequest("generate", time.Since(start).Seconds())
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{Op: "generate", StatusCode: apiErr.HTTPStatusCode, Body: vendorMessage(apiErr.Code, apiErr.Message)}
		}
		return "", &TransportError{Op: "generate", Err: err}
	}
	if resp.Error != nil {
		return "", &APIError{Op: "generate", StatusCode: http.StatusOK, Body: vendorMessage(resp.Error.Code, resp.Error.Message)}
	}
	if len(resp.Data) == 0 {
		return "", ErrNoImageData
	}
	image := resp.Data[0]
	if image.Url == nil || *image.Url == "" {
		return "", ErrNoImageData
	}
	return *image.Url, nil
}

func vendorMessage(code, message string) string {
	if code == "" {
		return message
	}
	return fmt.Sprintf("%s: %s", code, message)
}
