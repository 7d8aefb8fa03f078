package ark

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"doubao-mcp/internal/metrics"
)

const tasksPath = "/contents/generations/tasks"

type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
	TaskCanceled  TaskStatus = "canceled"
)

// Terminal reports whether the vendor will not change the status again.
func (s TaskStatus) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed || s == TaskCanceled
}

const (
	contentTypeText  = "text"
	contentTypeImage = "image_url"
)

type ImageURL struct {
	URL string `json:"url"`
}

// ContentItem is one element of a task's content list.
type ContentItem struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

func TextContent(text string) ContentItem {
	return ContentItem{Type: contentTypeText, Text: text}
}

func ImageContent(url string) ContentItem {
	return ContentItem{Type: contentTypeImage, ImageURL: &ImageURL{URL: url}}
}

// DataURL embeds a base64 payload as "data:<mime>;base64,<payload>".
func DataURL(mimeType, b64 string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, b64)
}

type TaskRequest struct {
	Model   string        `json:"model"`
	Content []ContentItem `json:"content"`
}

type createTaskResponse struct {
	ID string `json:"id"`
}

type TaskContent struct {
	VideoURL string `json:"video_url"`
}

type TaskError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Task is the status query result. Content is only set once the task succeeded.
type Task struct {
	ID        string       `json:"id"`
	Model     string       `json:"model,omitempty"`
	Status    TaskStatus   `json:"status"`
	Content   *TaskContent `json:"content,omitempty"`
	Error     *TaskError   `json:"error,omitempty"`
	CreatedAt int64        `json:"created_at,omitempty"`
	UpdatedAt int64        `json:"updated_at,omitempty"`
}

func (t *Task) VideoURL() string {
	if t == nil || t.Content == nil {
		return ""
	}
	return t.Content.VideoURL
}

// SubmitTask creates a video generation task and returns its id.
func (c *Client) SubmitTask(ctx context.Context, req TaskRequest) (string, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(tasksPath)
	metrics.RecordVendorRequest("submit", time.Since(start).Seconds())
	if err != nil {
		return "", &TransportError{Op: "submit", Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &APIError{Op: "submit", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var created createTaskResponse
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if created.ID == "" {
		return "", ErrMissingTaskID
	}
	return created.ID, nil
}

// GetTask queries the current state of a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", taskID).
		Get(tasksPath + "/{id}")
	metrics.RecordVendorRequest("query", time.Since(start).Seconds())
	if err != nil {
		return nil, &TransportError{Op: "query", Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{Op: "query", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var task Task
	if err := json.Unmarshal(resp.Body(), &task); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	task.Status = TaskStatus(strings.ToLower(string(task.Status)))
	if task.ID == "" {
		task.ID = taskID
	}
	return &task, nil
}
