package ark

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned by NewClient when no API key is configured.
	ErrMissingCredential = errors.New("DOUBAO_API_KEY is not set")

	ErrMissingTaskID     = errors.New("task submission response did not include a task id")
	ErrNoImageData       = errors.New("image generation returned no image data")
	ErrMalformedResponse = errors.New("malformed response from Ark API")

	// ErrTaskTimeout is returned when the poll budget runs out before the
	// task reaches a terminal status.
	ErrTaskTimeout = errors.New("video generation timed out")
)

// APIError is a non-200 answer from the Ark API.
type APIError struct {
	Op         string // "submit", "query" or "generate"
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	switch e.Op {
	case "submit":
		return fmt.Sprintf("failed to create video generation task, status code: %d, body: %s", e.StatusCode, e.Body)
	case "query":
		return fmt.Sprintf("failed to query task, status code: %d", e.StatusCode)
	default:
		return fmt.Sprintf("ark %s request failed, status code: %d, body: %s", e.Op, e.StatusCode, e.Body)
	}
}

// TransportError wraps a failure to reach the Ark API at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ark %s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TaskFailedError reports a task that ended as failed or canceled.
type TaskFailedError struct {
	TaskID string
	Status TaskStatus
	Reason string
}

func (e *TaskFailedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("task %s: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("task %s", e.Status)
}
