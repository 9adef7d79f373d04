package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Report content tree events",
	Long: `Reports content tree events that change which pages use which media.
Each event queues a reconciliation of the element; run 'pagemedia queue run'
to process it.`,
}

var eventNodeOfflineCmd = &cobra.Command{
	Use:   "node-offline <eid>",
	Short: "Report that an element's node went offline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNodeEvent(cmd, args[0], "offline", func(ctx context.Context, eid int64) error {
			return nodeEvents.NodeOffline(ctx, eid)
		})
	},
}

var eventNodeDeletedCmd = &cobra.Command{
	Use:   "node-deleted <eid>",
	Short: "Report that an element's node was deleted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNodeEvent(cmd, args[0], "deleted", func(ctx context.Context, eid int64) error {
			return nodeEvents.NodeDeleted(ctx, eid)
		})
	},
}

func init() {
	eventCmd.AddCommand(eventNodeOfflineCmd)
	eventCmd.AddCommand(eventNodeDeletedCmd)
	rootCmd.AddCommand(eventCmd)
}

func runNodeEvent(cmd *cobra.Command, arg, name string, handle func(context.Context, int64) error) error {
	if nodeEvents == nil {
		return errors.New("event handler not configured")
	}

	eid, err := parseElementID(arg)
	if err != nil {
		return err
	}

	if err := handle(cmd.Context(), eid); err != nil {
		return fmt.Errorf("node %s: %w", name, err)
	}
	cmd.Printf("Queued reconciliation of element %d (node %s)\n", eid, name)
	return nil
}
