package cli

import (
	"fmt"

	"github.com/existflow/notepado/internal/model"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [note...]",
	Aliases: []string{"rm"},
	Short:   "Delete notes",
	Long: `Delete one or more notes by list number or ID.

Examples:
  notepado delete 3
  notepado rm 1 2 5 --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	targets, err := resolveRefs(a.notes, args)
	if err != nil {
		return err
	}

	if a.cfg.ConfirmDelete && !deleteForce && !confirm(describe(targets)) {
		fmt.Println("Cancelled.")
		return nil
	}

	return removeNotes(cmd, a, targets)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note",
	Long: `Delete every note from the local database.

Examples:
  notepado clear
  notepado clear --force`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var clearForce bool

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	all := a.notes.Notes()
	if len(all) == 0 {
		fmt.Println("No notes to clear.")
		return nil
	}
	if !clearForce && !confirm(fmt.Sprintf("About to delete all %d notes", len(all))) {
		fmt.Println("Aborted.")
		return nil
	}

	fmt.Println("🧹 Clearing notes...")
	return removeNotes(cmd, a, all)
}

// removeNotes deletes targets in order and stops at the first failure
func removeNotes(cmd *cobra.Command, a *app, targets []model.Note) error {
	ctx := cmd.Context()
	if err := a.notes.RemoveMany(ctx, noteIDs(targets)); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}
	if err := a.close(ctx); err != nil {
		return err
	}

	for _, n := range targets {
		fmt.Printf("🗑️  Deleted: \"%s\"\n", displayTitle(n))
	}
	return nil
}

func describe(targets []model.Note) string {
	if len(targets) == 1 {
		return fmt.Sprintf("About to delete: \"%s\" (ID: %d)", displayTitle(targets[0]), targets[0].ID)
	}
	return fmt.Sprintf("About to delete %d notes", len(targets))
}
