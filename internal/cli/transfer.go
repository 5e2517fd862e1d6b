package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/platform"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import notes from a JSON file",
	Long: `Append the notes of an exported JSON file to the list.

Nothing is imported when any record is invalid. Notes whose ID is already in
use get a new one. Use - to read from stdin.

Examples:
  notepado import notes-export-1715329800000.json
  cat backup.json | notepado import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		payload []byte
		err     error
	)
	if args[0] == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if _, err := a.notes.ImportNotes(ctx, payload); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return a.close(ctx)
}

var exportCmd = &cobra.Command{
	Use:   "export [note...]",
	Short: "Export notes as JSON",
	Long: `Export the given notes, or all of them with --all.

When stdout is a terminal the file goes to the export directory (or the share
command in the app platform); otherwise the JSON is written to stdout.

Examples:
  notepado export 1 2
  notepado export --all > backup.json`,
	RunE: runExport,
}

var (
	exportAll    bool
	exportStdout bool
)

func init() {
	exportCmd.Flags().BoolVarP(&exportAll, "all", "a", false, "Export every note")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the JSON to stdout even on a terminal")
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportAll && len(args) == 0 {
		return fmt.Errorf("name the notes to export or pass --all")
	}

	var sink notelist.Sink
	if exportStdout || !platform.IsTerminal(os.Stdout) {
		sink = platform.WriterSink{W: cmd.OutOrStdout()}
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{Sink: sink})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	ids, err := selection(a, args, exportAll)
	if err != nil {
		return err
	}
	if err := a.notes.BulkAction(ctx, notelist.BulkExport, ids); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return a.close(ctx)
}

var copyCmd = &cobra.Command{
	Use:   "copy [note...]",
	Short: "Copy notes to the clipboard as JSON",
	Long: `Copy the given notes, or all stored notes with --all, to the clipboard.

Examples:
  notepado copy 1
  notepado copy --all`,
	RunE: runCopy,
}

var copyAll bool

func init() {
	copyCmd.Flags().BoolVarP(&copyAll, "all", "a", false, "Copy every stored note")
}

func runCopy(cmd *cobra.Command, args []string) error {
	if !copyAll && len(args) == 0 {
		return fmt.Errorf("name the notes to copy or pass --all")
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if copyAll {
		if err := a.notes.CopyAll(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		return a.close(ctx)
	}

	ids, err := selection(a, args, false)
	if err != nil {
		return err
	}
	if err := a.notes.BulkAction(ctx, notelist.BulkCopy, ids); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	return a.close(ctx)
}

// selection resolves refs, or takes every note when all is set
func selection(a *app, refs []string, all bool) ([]int64, error) {
	if all {
		return noteIDs(a.notes.Notes()), nil
	}
	targets, err := resolveRefs(a.notes, refs)
	if err != nil {
		return nil, err
	}
	return noteIDs(targets), nil
}
