package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your most recent upscaling jobs",
	Long: `List up to 100 of your most recent jobs, newest first.

Requires UPSCALE_TOKEN.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.Token == "" {
		exitWithError("UPSCALE_TOKEN is required for history")
	}

	entries, err := client.ListHistory(context.Background())
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSTATUS\tMODEL\tRESOLUTION\tENHANCED")
	for _, e := range entries {
		enhanced := "-"
		if e.EnhancedVideoURL != nil {
			enhanced = *e.EnhancedVideoURL
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.Status, e.Model, e.Resolution, enhanced)
	}
	return w.Flush()
}
