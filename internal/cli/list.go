package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/richtext"
	"github.com/existflow/notepado/internal/tui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes",
	Long: `List notes in the configured order, optionally searched and sorted.

The number in the first column can be used wherever a command takes a note
reference, as long as the list is not searched or re-sorted.

Examples:
  notepado list
  notepado list --search groc
  notepado list --sort modified-newest`,
	RunE: runList,
}

var (
	listSort   string
	listSearch string
)

func init() {
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort mode (manual, created-newest, created-oldest, modified-newest, modified-oldest)")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Only notes whose title or description contain this text")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if listSort != "" {
		mode, ok := notelist.ParseSortMode(listSort)
		if !ok {
			return fmt.Errorf("unknown sort mode %q", listSort)
		}
		if err := a.notes.SetSort(mode); err != nil {
			return err
		}
	}
	a.notes.SetSearchTerm(listSearch)

	view := a.notes.View()
	if len(view) == 0 {
		if listSearch != "" {
			fmt.Printf("No notes match %q\n", listSearch)
			return nil
		}
		fmt.Println("No notes found. Add one with: notepado add \"Your note\"")
		return nil
	}

	state := a.notes.State()
	fmt.Printf("\n📝 Notes (%d, %s)\n", len(view), state.Sort.Label())
	fmt.Println(strings.Repeat("─", 72))

	now := time.Now()
	for i, n := range view {
		printNote(i+1, n, now)
	}
	fmt.Println()
	return nil
}

func printNote(num int, n model.Note, now time.Time) {
	icon := "  "
	if n.IsToDoList() {
		icon = "☐ "
	}

	title := tui.Truncate(displayTitle(n), 30)
	summary := tui.Truncate(richtext.PlainText(n.Description), 24)

	fmt.Printf("  %3d  %s%s  %s  %-8s  %s\n",
		num, icon, tui.PadRight(title, 30), tui.PadRight(summary, 24), n.BgColor, tui.Modified(n, now))
}

var showCmd = &cobra.Command{
	Use:   "show [note]",
	Short: "Show a note",
	Long: `Show a note's title, dates and description as plain text.

Examples:
  notepado show 1
  notepado show 1715329800000 --markup`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showMarkup bool

func init() {
	showCmd.Flags().BoolVar(&showMarkup, "markup", false, "Print the stored HTML instead of plain text")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("\n%s\n", displayTitle(n))
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("ID:       %d\n", n.ID)
	fmt.Printf("Created:  %s\n", n.CreationDate)
	if n.LastModifiedDate != "" {
		fmt.Printf("Modified: %s (%s)\n", n.LastModifiedDate, tui.Modified(n, time.Now()))
	}
	fmt.Printf("Color:    %s\n", n.BgColor)
	if n.IsToDoList() {
		fmt.Println("To-do:    yes")
	}
	fmt.Println()

	if showMarkup {
		fmt.Println(n.Description)
		return nil
	}
	doc := richtext.Parse(n.Description)
	for _, b := range doc.Blocks {
		fmt.Println(b.Text())
	}
	return nil
}
