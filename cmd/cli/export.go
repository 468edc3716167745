package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskflow-backend/internal/state"
	"taskflow-backend/pkg/kvstore"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the stored workspaces, tasks, notes and user",
	Long: `Export reads the four stored collections and writes them to stdout.

The document is keyed by storage key. Use --format json or --format yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := kvstore.Open(cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		container, err := state.Open(cmd.Context(), store)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}

		return writeExport(cmd.OutOrStdout(), container.Current(), exportFormat)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(exportCmd)
}

// writeExport renders the snapshot with the same field names the API uses.
func writeExport(w io.Writer, snap state.Snapshot, format string) error {
	doc := map[string]any{
		state.KeyWorkspaces: snap.Workspaces,
		state.KeyTasks:      snap.Tasks,
		state.KeyNotes:      snap.Notes,
		state.KeyUser:       snap.User,
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		// Round-trip through JSON so YAML keys follow the json tags.
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		var generic map[string]any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(generic)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
