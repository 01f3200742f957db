package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/workflow"
)

var (
	enhanceModel      string
	enhanceResolution string
	enhanceRetries    int
	enhanceCancel     bool
	pollPolicy        = workflow.DefaultPollPolicy()
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <video-url>",
	Short: "Upscale a video and wait for the result",
	Long: `Submit a video for upscaling, poll until the job finishes, re-upload the
result to the CDN and record it in your history.

Ctrl-C stops polling; with --cancel-upstream the prediction is canceled too.

Examples:
  upscale enhance https://example.com/a.mp4 --model RealESRGAN_x4plus --resolution FHD
  upscale enhance https://example.com/a.mp4 -m RealESRGAN_x4plus -r 4k --retries 2`,
	Args: cobra.ExactArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceModel, "model", "m", "", "upscaling model (required)")
	enhanceCmd.Flags().StringVarP(&enhanceResolution, "resolution", "r", "", "target resolution (required)")
	enhanceCmd.Flags().IntVar(&enhanceRetries, "retries", 0, "resubmit this many times after a failed or errored run")
	enhanceCmd.Flags().BoolVar(&enhanceCancel, "cancel-upstream", false, "cancel the prediction when interrupted")

	enhanceCmd.Flags().DurationVar(&pollPolicy.Interval, "poll-interval", pollPolicy.Interval, "delay between status queries")
	enhanceCmd.Flags().IntVar(&pollPolicy.FailedRetries, "failed-retries", pollPolicy.FailedRetries, "re-checks before a failed status is trusted")
	enhanceCmd.Flags().DurationVar(&pollPolicy.FailedDelay, "failed-delay", pollPolicy.FailedDelay, "delay between failed-status re-checks")
	enhanceCmd.Flags().IntVar(&pollPolicy.ErrorRetries, "error-retries", pollPolicy.ErrorRetries, "retries of a failing status query")
	enhanceCmd.Flags().DurationVar(&pollPolicy.ErrorDelay, "error-delay", pollPolicy.ErrorDelay, "delay between status query retries")

	_ = enhanceCmd.MarkFlagRequired("model")
	_ = enhanceCmd.MarkFlagRequired("resolution")
}

func runEnhance(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := workflow.NewSession(func(c workflow.Change) {
		if c.From == c.To {
			return
		}
		logger.Info("state changed", "from", c.From, "to", c.To, "job_id", c.JobID)
	})
	runner := workflow.NewRunner(client, sess, pollPolicy, logger)

	// Reset on interrupt so the poll task stops and the session goes idle.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := runner.Reset(context.Background(), enhanceCancel); err != nil {
				logger.Warn("reset failed", "error", err)
			}
		case <-done:
		}
	}()

	out, err := runner.Enhance(ctx, models.SubmitRequest{
		VideoURL:   args[0],
		Model:      enhanceModel,
		Resolution: enhanceResolution,
	})
	for attempt := 1; attempt <= enhanceRetries && retryable(out, err); attempt++ {
		logger.Info("retrying submission", "attempt", attempt, "max_retries", enhanceRetries)
		out, err = runner.Retry(ctx)
	}

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("Canceled.")
		return nil
	case err != nil:
		return fmt.Errorf("enhance: %w", err)
	}

	fmt.Printf("Job:      %s\n", out.JobID)
	fmt.Printf("Status:   %s\n", out.State)
	if out.EnhancedURL != "" {
		fmt.Printf("Enhanced: %s\n", out.EnhancedURL)
	}
	fmt.Printf("History:  %s\n", out.HistoryID)
	return nil
}

func retryable(out workflow.Outcome, err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return out.State == workflow.StateFailed || out.State == workflow.StateError
}
