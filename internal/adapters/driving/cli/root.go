// Package cli provides the pagemedia command line interface.
package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagemedia/internal/core/ports/driving"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services used by commands. Set by SetServices.
var (
	reconciler    driving.Reconciler
	jobQueue      driving.JobQueue
	nodeEvents    driving.NodeEventHandler
	importer      driving.Importer
	configService driving.ConfigService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pagemedia",
	Short: "Keep media documents in step with the pages that use them",
	Long: `pagemedia reconciles media documents in the search index with the
pages that reference them. For a changed element it finds every affected
media document, verifies each candidate page against its published
revision, and rebuilds the media document's page, node, siteroot and
language sets.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Services bundles the core services the commands drive.
type Services struct {
	Reconciler    driving.Reconciler
	JobQueue      driving.JobQueue
	NodeEvents    driving.NodeEventHandler
	Importer      driving.Importer
	ConfigService driving.ConfigService
}

// SetServices wires core services into the commands.
func SetServices(s Services) {
	reconciler = s.Reconciler
	jobQueue = s.JobQueue
	nodeEvents = s.NodeEvents
	importer = s.Importer
	configService = s.ConfigService
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// parseElementID parses a positive element id argument.
func parseElementID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &invalidElementError{arg: arg}
	}
	return id, nil
}

type invalidElementError struct {
	arg string
}

func (e *invalidElementError) Error() string {
	return "invalid element id: " + strconv.Quote(e.arg)
}
