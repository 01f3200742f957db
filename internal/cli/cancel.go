package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a running prediction",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

func runCancel(cmd *cobra.Command, args []string) error {
	resp, err := client.Cancel(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	fmt.Printf("Prediction %s: %s\n", resp.Data.ID, resp.Data.Status)
	return nil
}
