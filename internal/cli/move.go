package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:     "move [from] [to]",
	Aliases: []string{"mv"},
	Short:   "Move a note to another position",
	Long: `Move the note at list position <from> to position <to>.

Moving a note switches the list to manual order.

Examples:
  notepado move 5 1
  notepado mv 1 3`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	view := a.notes.View()
	if from < 1 || from > len(view) || to < 1 || to > len(view) {
		return fmt.Errorf("positions must be between 1 and %d", len(view))
	}
	moved := view[from-1]

	if err := a.notes.Reorder(ctx, from-1, to-1); err != nil {
		return fmt.Errorf("failed to move note: %w", err)
	}
	if err := a.close(ctx); err != nil {
		return err
	}

	fmt.Printf("✓ Moved \"%s\" to position %d\n", displayTitle(moved), to)
	return nil
}
