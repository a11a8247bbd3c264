package wbapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wb-ledger-bot/internal/logger"
)

var (
	// ErrJobFailed marks an async report task the provider reported as
	// failed or canceled.
	ErrJobFailed = errors.New("report task failed")

	// ErrJobTimeout marks a task that never reached a terminal status
	// within the poll ceiling.
	ErrJobTimeout = errors.New("report task timed out")
)

// jobPoller drives the seller-analytics async report protocol: submit a
// task, poll its status on a fixed interval until done or the ceiling,
// then download the result.
type jobPoller struct {
	exec     *Executor
	baseURL  string
	interval time.Duration
	ceiling  time.Duration
	sleep    SleepFunc
	now      func() time.Time
}

type taskEnvelope struct {
	Data struct {
		TaskID string `json:"taskId"`
		Status string `json:"status"`
	} `json:"data"`
}

// run submits the report described by query and returns the downloaded
// body once the task completes.
func (p *jobPoller) run(ctx context.Context, query url.Values) ([]byte, error) {
	body, err := p.exec.Do(ctx, http.MethodGet, p.baseURL, query, nil)
	if err != nil {
		return nil, fmt.Errorf("submit report task: %w", err)
	}
	var created taskEnvelope
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode task id: %w", err)
	}
	if created.Data.TaskID == "" {
		return nil, fmt.Errorf("submit report task: empty task id in response %q", string(body))
	}
	taskID := created.Data.TaskID
	logger.Debug(ctx, "report task submitted", "task_id", taskID)

	deadline := p.now().Add(p.ceiling)
	for {
		if err := p.sleep(ctx, p.interval); err != nil {
			return nil, err
		}

		statusURL := fmt.Sprintf("%s/tasks/%s/status", p.baseURL, taskID)
		body, err := p.exec.Do(ctx, http.MethodGet, statusURL, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("poll task %s: %w", taskID, err)
		}
		var st taskEnvelope
		if err := json.Unmarshal(body, &st); err != nil {
			return nil, fmt.Errorf("decode task %s status: %w", taskID, err)
		}

		switch st.Data.Status {
		case "done":
			downloadURL := fmt.Sprintf("%s/tasks/%s/download", p.baseURL, taskID)
			data, err := p.exec.Do(ctx, http.MethodGet, downloadURL, nil, nil)
			if err != nil {
				return nil, fmt.Errorf("download task %s: %w", taskID, err)
			}
			return data, nil
		case "error", "canceled", "purged":
			return nil, fmt.Errorf("task %s ended with status %q: %w", taskID, st.Data.Status, ErrJobFailed)
		}

		if p.now().After(deadline) {
			return nil, fmt.Errorf("task %s still %q after %s: %w",
				taskID, st.Data.Status, p.ceiling, ErrJobTimeout)
		}
		logger.Debug(ctx, "report task pending", "task_id", taskID, "status", st.Data.Status)
	}
}
