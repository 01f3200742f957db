package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"video-upscaler-backend/internal/models"
)

type Submitter interface {
	Submit(ctx context.Context, req models.SubmitRequest) (*models.SubmitResponse, error)
}

type Canceler interface {
	Cancel(ctx context.Context, id string) (*models.CancelResponse, error)
}

// API is everything the workflow needs from the server.
type API interface {
	Submitter
	StatusQuerier
	MediaUploader
	HistoryWriter
	Canceler
}

var ErrNothingToRetry = errors.New("no failed submission to retry")

// Outcome summarizes one Enhance run.
type Outcome struct {
	JobID       string
	State       State
	EnhancedURL string
	HistoryID   string
	Queries     int
}

type Runner struct {
	api       API
	session   *Session
	poller    *Poller
	finalizer *Finalizer
	logger    *slog.Logger
}

func NewRunner(api API, session *Session, policy PollPolicy, logger *slog.Logger) *Runner {
	return &Runner{
		api:       api,
		session:   session,
		poller:    NewPoller(api, policy, logger),
		finalizer: NewFinalizer(api, api, logger),
		logger:    logger.With("component", "runner"),
	}
}

func (r *Runner) Session() *Session {
	return r.session
}

// Enhance submits req and follows the job to a history entry. It returns
// when the job is finalized, the status query gives up, or the run is reset.
func (r *Runner) Enhance(ctx context.Context, req models.SubmitRequest) (Outcome, error) {
	if err := r.session.Transition(StateUploading); err != nil {
		return Outcome{State: r.session.State()}, err
	}
	r.session.setSource(req)
	return r.run(ctx, req)
}

// Retry resubmits the source of a failed or errored run.
func (r *Runner) Retry(ctx context.Context) (Outcome, error) {
	state := r.session.State()
	src := r.session.Source()
	if (state != StateFailed && state != StateError) || src.VideoURL == "" {
		return Outcome{State: state}, ErrNothingToRetry
	}
	if err := r.session.Transition(StateUploading); err != nil {
		return Outcome{State: state}, err
	}
	return r.run(ctx, src)
}

// Reset stops polling and returns the session to idle. With cancelUpstream
// the running prediction is canceled as well.
func (r *Runner) Reset(ctx context.Context, cancelUpstream bool) error {
	id := r.session.JobID()
	if id != "" {
		r.poller.Cancel(id)
	}
	r.session.Reset()

	if !cancelUpstream {
		return nil
	}
	if id == "" {
		// Interrupted before the submission returned a job id.
		r.logger.Warn("upstream cancel requested but no job id is known, prediction may keep running")
		return nil
	}
	if _, err := r.api.Cancel(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel prediction %s: %w", id, err)
	}
	r.logger.Info("prediction canceled", "job_id", id)
	return nil
}

func (r *Runner) run(ctx context.Context, req models.SubmitRequest) (Outcome, error) {
	resp, err := r.api.Submit(ctx, req)
	if err != nil {
		_ = r.session.Transition(StateError)
		r.logger.Error("submission failed", "video_url", req.VideoURL, "error", err)
		return Outcome{State: StateError}, err
	}

	r.session.setJob(resp.ID)
	if err := r.session.Transition(StateProcessing); err != nil {
		return Outcome{JobID: resp.ID, State: r.session.State()}, err
	}
	r.logger.Info("job submitted", "job_id", resp.ID, "status", resp.Status)

	res := <-r.poller.Start(ctx, resp.ID, func(models.JobRecord) {
		_ = r.session.Transition(StateProcessing)
	})
	out := Outcome{JobID: resp.ID, State: res.State, Queries: res.Queries}

	switch res.State {
	case StateSucceeded:
		out.HistoryID, err = r.finalizer.Succeeded(ctx, r.session, res.Record)
		out.EnhancedURL = r.session.EnhancedURL()
		return out, err
	case StateFailed:
		out.HistoryID, err = r.finalizer.Failed(ctx, r.session, res.Record)
		return out, err
	case StateError:
		_ = r.session.Transition(StateError)
		return out, res.Err
	default:
		out.State = r.session.State()
		return out, res.Err
	}
}
