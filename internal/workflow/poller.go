package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"video-upscaler-backend/internal/models"
)

type StatusQuerier interface {
	Status(ctx context.Context, id string) (models.JobRecord, error)
}

// PollPolicy bounds the poll loop. A failed status is re-checked
// FailedRetries times before it is trusted; a failing status query is
// retried ErrorRetries times before the loop gives up. The Job Store never
// rewrites a terminal record, so the failed re-checks only cover a read
// served by a stale replica or cache in front of the store.
type PollPolicy struct {
	Interval      time.Duration
	FailedRetries int
	FailedDelay   time.Duration
	ErrorRetries  int
	ErrorDelay    time.Duration
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:      3 * time.Second,
		FailedRetries: 5,
		FailedDelay:   10 * time.Second,
		ErrorRetries:  5,
		ErrorDelay:    10 * time.Second,
	}
}

// Result is the outcome of one poll task. State is succeeded, failed or
// error; Err is set for error and for a canceled task.
type Result struct {
	JobID   string
	State   State
	Record  models.JobRecord
	Queries int
	Err     error
}

type task struct {
	cancel context.CancelFunc
}

// Poller runs at most one poll task per job id.
type Poller struct {
	querier StatusQuerier
	policy  PollPolicy
	logger  *slog.Logger

	mu    sync.Mutex
	tasks map[string]*task
}

func NewPoller(querier StatusQuerier, policy PollPolicy, logger *slog.Logger) *Poller {
	return &Poller{
		querier: querier,
		policy:  policy,
		logger:  logger.With("component", "poller"),
		tasks:   make(map[string]*task),
	}
}

// Start launches the poll task for id, replacing any running one. The
// returned channel yields exactly one Result. observe is called with every
// non-terminal record.
func (p *Poller) Start(ctx context.Context, id string, observe func(models.JobRecord)) <-chan Result {
	ctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel}

	p.mu.Lock()
	if prev, ok := p.tasks[id]; ok {
		prev.cancel()
	}
	p.tasks[id] = t
	p.mu.Unlock()

	out := make(chan Result, 1)
	go func() {
		defer cancel()
		res := p.Poll(ctx, id, observe)

		p.mu.Lock()
		if p.tasks[id] == t {
			delete(p.tasks, id)
		}
		p.mu.Unlock()

		out <- res
		close(out)
	}()
	return out
}

// Cancel stops the poll task for id. It reports whether one was running.
func (p *Poller) Cancel(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tasks[id]
	if ok {
		t.cancel()
		delete(p.tasks, id)
	}
	return ok
}

func (p *Poller) Active(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.tasks[id]
	return ok
}

// Poll queries sequentially until a terminal outcome or ctx is done.
func (p *Poller) Poll(ctx context.Context, id string, observe func(models.JobRecord)) Result {
	logger := p.logger.With("job_id", id)
	res := Result{JobID: id}
	failedRetries, errorRetries := 0, 0

	for {
		rec, err := p.querier.Status(ctx, id)
		res.Queries++

		var delay time.Duration
		switch {
		case ctx.Err() != nil:
			res.Err = ctx.Err()
			return res
		case err != nil:
			if errorRetries >= p.policy.ErrorRetries {
				logger.Error("status query failed, giving up", "queries", res.Queries, "error", err)
				res.State = StateError
				res.Err = err
				return res
			}
			errorRetries++
			logger.Warn("status query failed, retrying", "retry", errorRetries, "max_retries", p.policy.ErrorRetries, "error", err)
			delay = p.policy.ErrorDelay
		default:
			errorRetries = 0
			res.Record = rec
			switch rec.Status {
			case models.JobStatusSucceeded:
				logger.Info("job succeeded", "queries", res.Queries)
				res.State = StateSucceeded
				return res
			case models.JobStatusFailed:
				if failedRetries >= p.policy.FailedRetries {
					logger.Warn("job failed", "queries", res.Queries, "retries", failedRetries)
					res.State = StateFailed
					return res
				}
				failedRetries++
				logger.Info("job reported failed, re-checking", "retry", failedRetries, "max_retries", p.policy.FailedRetries)
				delay = p.policy.FailedDelay
			default:
				if observe != nil {
					observe(rec)
				}
				delay = p.policy.Interval
			}
		}

		if err := sleep(ctx, delay); err != nil {
			res.Err = err
			return res
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
