package cli

import (
	"fmt"

	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [note]",
	Short: "Change a note's title or description",
	Long: `Replace the title or the description of a note.

A note left with neither a title nor a description is deleted, as in the TUI.

Examples:
  notepado edit 1 --title "Groceries for Sunday"
  notepado edit 1 -d "milk, eggs, bread"
  notepado edit 1 --markup "<p><b>milk</b></p>"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editMarkup      string
)

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description text")
	editCmd.Flags().StringVar(&editMarkup, "markup", "", "New description as an HTML fragment")
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("description") && !flags.Changed("markup") {
		return fmt.Errorf("nothing to change: pass --title, --description or --markup")
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	n, err := resolveRef(a.notes, args[0])
	if err != nil {
		return err
	}

	if flags.Changed("title") {
		if err := a.notes.UpdateTitle(n.ID, editTitle); err != nil {
			return err
		}
	}
	switch {
	case flags.Changed("markup"):
		if err := a.notes.UpdateDescription(n.ID, notelist.Sanitize(editMarkup)); err != nil {
			return err
		}
	case flags.Changed("description"):
		if err := a.notes.ShowDescription(ctx, n.ID); err != nil {
			return err
		}
		ed := a.notes.Editor()
		ed.SelectAll()
		if editDescription == "" {
			ed.Delete()
		} else {
			ed.Type(editDescription)
		}
	}

	if err := a.notes.SaveNow(ctx, n.ID); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	if err := a.notes.HideDescription(ctx, n.ID); err != nil {
		return err
	}
	if err := a.close(ctx); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	if stored, ok := a.notes.Note(n.ID); ok {
		fmt.Printf("✓ Updated: \"%s\"\n", displayTitle(stored))
	} else {
		fmt.Printf("🗑️  Deleted empty note (ID: %d)\n", n.ID)
	}
	return nil
}

var colorCmd = &cobra.Command{
	Use:   "color [note] [color]",
	Short: "Set a note's background color",
	Long: `Set the background color of a note.

Colors: default, red, blue, green, yellow.

Examples:
  notepado color 1 red
  notepado color 2 default`,
	Args: cobra.ExactArgs(2),
	RunE: runColor,
}

func runColor(cmd *cobra.Command, args []string) error {
	color, ok := model.ParseColor(args[1])
	if !ok {
		return fmt.Errorf("unknown color %q", args[1])
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	n, err := resolveRef(a.notes, args[0])
	if err != nil {
		return err
	}
	if err := a.notes.SetColor(ctx, n.ID, color); err != nil {
		return fmt.Errorf("failed to set color: %w", err)
	}

	fmt.Printf("✓ \"%s\" is now %s\n", displayTitle(n), color)
	return a.close(ctx)
}

var todoCmd = &cobra.Command{
	Use:   "todo [note]",
	Short: "Show a note as a to-do list",
	Long: `Mark a note as a to-do list.

Examples:
  notepado todo 1
  notepado todo 1 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runToDo,
}

var todoUndo bool

func init() {
	todoCmd.Flags().BoolVar(&todoUndo, "undo", false, "Show the note as plain text again")
}

func runToDo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	n, err := resolveRef(a.notes, args[0])
	if err != nil {
		return err
	}
	if err := a.notes.SetToDoList(ctx, n.ID, !todoUndo); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if todoUndo {
		fmt.Printf("✓ \"%s\" is a plain note\n", displayTitle(n))
	} else {
		fmt.Printf("✓ \"%s\" is a to-do list\n", displayTitle(n))
	}
	return a.close(ctx)
}
