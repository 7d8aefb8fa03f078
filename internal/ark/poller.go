package ark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"doubao-mcp/internal/metrics"
)

const (
	DefaultPollInterval    = 5 * time.Second
	DefaultPollMaxAttempts = 60
)

// PollState is where a poll loop currently stands.
type PollState int

const (
	StateSubmitted PollState = iota
	StatePolling
	StateSucceeded
	StateFailed
	StateCanceled
	StateTimedOut
)

func (s PollState) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// TaskQuerier is the status lookup the poller drives. *Client implements it.
type TaskQuerier interface {
	GetTask(ctx context.Context, taskID string) (*Task, error)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type Poller struct {
	querier     TaskQuerier
	interval    time.Duration
	maxAttempts int
	wait        WaitFunc
}

type PollerOption func(*Poller)

// WithWait replaces the timer-based wait.
func WithWait(wait WaitFunc) PollerOption {
	return func(p *Poller) {
		p.wait = wait
	}
}

func NewPoller(querier TaskQuerier, interval time.Duration, maxAttempts int, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	p := &Poller{
		querier:     querier,
		interval:    interval,
		maxAttempts: maxAttempts,
		wait:        timerWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func timerWait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll waits one interval before every status query and stops at the first
// terminal status, the first failed query, or after maxAttempts queries.
// A succeeded task is returned as is; failed and canceled tasks come back as
// *TaskFailedError and an exhausted budget as ErrTaskTimeout.
func (p *Poller) Poll(ctx context.Context, taskID string) (*Task, error) {
	// Submitted moves straight to Polling.
	state := StatePolling
	logger := log.With().Str("task_id", taskID).Logger()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := p.wait(ctx, p.interval); err != nil {
			metrics.RecordTaskPoll("aborted")
			return nil, fmt.Errorf("polling task %s stopped: %w", taskID, err)
		}

		logger.Debug().
			Int("attempt", attempt).
			Int("max_attempts", p.maxAttempts).
			Str("state", state.String()).
			Msg("Querying video generation task")

		task, err := p.querier.GetTask(ctx, taskID)
		if err != nil {
			metrics.RecordTaskPoll("error")
			return nil, err
		}

		switch task.Status {
		case TaskSucceeded:
			state = StateSucceeded
		case TaskFailed:
			state = StateFailed
		case TaskCanceled:
			state = StateCanceled
		default:
			continue
		}

		logger.Info().Int("attempts", attempt).Str("state", state.String()).Msg("Video generation task finished")
		metrics.RecordTaskPoll(state.String())
		if state == StateSucceeded {
			return task, nil
		}
		failure := &TaskFailedError{TaskID: taskID, Status: task.Status}
		if task.Error != nil {
			failure.Reason = task.Error.Message
		}
		return nil, failure
	}

	state = StateTimedOut
	logger.Warn().Int("attempts", p.maxAttempts).Str("state", state.String()).Msg("Video generation timed out")
	metrics.RecordTaskPoll("timeout")
	return nil, fmt.Errorf("%w after %d status checks", ErrTaskTimeout, p.maxAttempts)
}

// IsTaskFailure reports whether err is a failed or canceled task.
func IsTaskFailure(err error) bool {
	var failure *TaskFailedError
	return errors.As(err, &failure)
}
