package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the stored status of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	rec, err := client.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Printf("Job:        %s\n", rec.ID)
	fmt.Printf("Status:     %s\n", rec.Status)
	if rec.Model != "" {
		fmt.Printf("Model:      %s\n", rec.Model)
	}
	if rec.Resolution != "" {
		fmt.Printf("Resolution: %s\n", rec.Resolution)
	}
	if u, ok := rec.ArtifactURL(); ok {
		fmt.Printf("Output:     %s\n", u)
	}
	if rec.CompletedAt != "" {
		fmt.Printf("Completed:  %s\n", rec.CompletedAt)
	}
	return nil
}
