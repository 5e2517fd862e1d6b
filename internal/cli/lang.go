package cli

import (
	"fmt"

	"github.com/existflow/notepado/internal/prefs"
	"github.com/spf13/cobra"
)

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the interface language",
	Long: `Show or set the interface language.

Without a saved choice the language follows LC_ALL, LC_MESSAGES or LANG.

Examples:
  notepado lang
  notepado lang de
  notepado lang --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLang,
}

var langList bool

func init() {
	langCmd.Flags().BoolVarP(&langList, "list", "l", false, "List supported languages")
}

func runLang(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{KeepOnLoadError: true})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if langList {
		for _, tag := range prefs.Supported {
			marker := "  "
			if tag == a.language {
				marker = "❯ "
			}
			fmt.Printf("%s%-5s %s\n", marker, tag, prefs.DisplayName(tag))
		}
		return nil
	}

	if len(args) == 0 {
		fmt.Printf("Language: %s (%s, %s)\n", prefs.DisplayName(a.language), a.language, prefs.Direction(a.language))
		return nil
	}

	tag, err := a.prefs.SetLanguage(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("✓ Language set to: %s (%s)\n", prefs.DisplayName(tag), tag)
	return nil
}
