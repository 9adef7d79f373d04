package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var updatePageDataCmd = &cobra.Command{
	Use:   "update-page-data <eid>",
	Short: "Rebuild media documents used by an element",
	Long: `Rebuilds the page usage summary of every media document affected by
the element: documents of files the element uses, and documents that
still list the element. Documents that fail are reported and do not
stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdatePageData,
}

func init() {
	rootCmd.AddCommand(updatePageDataCmd)
}

func runUpdatePageData(cmd *cobra.Command, args []string) error {
	if reconciler == nil {
		return errors.New("reconcile service not configured")
	}

	eid, err := parseElementID(args[0])
	if err != nil {
		return err
	}

	result, err := reconciler.Reconcile(cmd.Context(), eid)
	if err != nil {
		return fmt.Errorf("update page data: %w", err)
	}

	cmd.Printf("Number of affected documents: %d\n", result.AffectedCount())
	if result.HasFailures() {
		cmd.Printf("Failed documents: %d\n", len(result.Failures))
		for _, f := range result.Failures {
			cmd.Printf("  %s: %v\n", f.Identity, f.Err)
		}
	}

	return nil
}
