package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new note",
	Long: `Add a new note at the top of the list.

The description is plain text with one paragraph per line. Use --markup to
pass an HTML fragment instead, which is sanitized before it is stored.

Examples:
  notepado add "Groceries"
  notepado add "Groceries" -d "milk, eggs" -c green
  notepado add "Packing" --todo -d "passport"`,
	RunE: runAdd,
}

var (
	addDescription string
	addMarkup      string
	addColor       string
	addToDo        bool
)

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description text")
	addCmd.Flags().StringVar(&addMarkup, "markup", "", "Description as an HTML fragment")
	addCmd.Flags().StringVarP(&addColor, "color", "c", "default", "Background color (default, red, blue, green, yellow)")
	addCmd.Flags().BoolVar(&addToDo, "todo", false, "Show the note as a to-do list")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	if title == "" && addDescription == "" && addMarkup == "" {
		return fmt.Errorf("a title or a description is required")
	}

	color, ok := model.ParseColor(addColor)
	if !ok {
		return fmt.Errorf("unknown color %q", addColor)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	note, err := a.notes.AddNote(ctx)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	if err := a.notes.UpdateTitle(note.ID, title); err != nil {
		return err
	}

	switch {
	case addMarkup != "":
		if err := a.notes.UpdateDescription(note.ID, notelist.Sanitize(addMarkup)); err != nil {
			return err
		}
	case addDescription != "":
		a.notes.Focus(notelist.FieldDescription)
		a.notes.Editor().Type(addDescription)
	}

	if err := a.notes.SaveNow(ctx, note.ID); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	if color != model.ColorDefault {
		if err := a.notes.SetColor(ctx, note.ID, color); err != nil {
			return err
		}
	}
	if addToDo {
		if err := a.notes.SetToDoList(ctx, note.ID, true); err != nil {
			return err
		}
	}
	if err := a.notes.HideDescription(ctx, note.ID); err != nil {
		return err
	}
	if err := a.close(ctx); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	fmt.Printf("✓ Added: \"%s\" (ID: %d)\n", displayTitle(model.Note{Title: title}), note.ID)
	return nil
}

