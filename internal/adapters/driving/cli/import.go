package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Load content state from a JSON file",
	Long: `Loads usage records, content values, published nodes, siteroot
properties and index documents from a JSON file. Stored page documents
queue a reconciliation of their element.

The file holds an object with the keys file_usages, folder_usages,
content_values, published_nodes, siteroots and documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	var fixture domain.Fixture
	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&fixture); err != nil {
		return fmt.Errorf("decode fixture: %w", err)
	}

	summary, err := importer.Import(cmd.Context(), fixture)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	cmd.Printf("Imported %d file usages, %d folder usages, %d content values, %d published nodes, %d siteroots, %d documents\n",
		summary.FileUsages, summary.FolderUsages, summary.ContentValues,
		summary.PublishedNodes, summary.Siteroots, summary.Documents)
	if summary.Scheduled > 0 {
		cmd.Printf("Queued %d page reconciliations\n", summary.Scheduled)
	}
	return nil
}
