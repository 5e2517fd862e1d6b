package cli

import (
	"fmt"

	"github.com/existflow/notepado/internal/config"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort [mode]",
	Short: "Show or set the default sort mode",
	Long: `Show or set the sort mode used when notepado starts.

Examples:
  notepado sort                   # Show the current default
  notepado sort ls                # List all sort modes
  notepado sort modified-newest   # Sort by last change from now on`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSort,
}

var sortLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List all sort modes",
	Args:    cobra.NoArgs,
	RunE:    runSortList,
}

func init() {
	sortCmd.AddCommand(sortLsCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig()
	if len(args) == 0 {
		mode, ok := notelist.ParseSortMode(cfg.DefaultSort)
		if !ok {
			mode = notelist.SortManual
		}
		fmt.Printf("Default sort: %s (%s)\n", mode, mode.Label())
		return nil
	}

	mode, ok := notelist.ParseSortMode(args[0])
	if !ok {
		return fmt.Errorf("unknown sort mode %q (see 'notepado sort ls')", args[0])
	}
	cfg.DefaultSort = string(mode)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("✓ Default sort set to: %s\n", mode.Label())
	return nil
}

func runSortList(cmd *cobra.Command, args []string) error {
	current := loadedConfig().DefaultSort
	for _, mode := range notelist.SortModes {
		marker := "  "
		if string(mode) == current {
			marker = "❯ "
		}
		fmt.Printf("%s%-16s %s\n", marker, mode, mode.Label())
	}
	return nil
}

// loadedConfig is the config of this run, or defaults outside a command
func loadedConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	dir, _ := config.Dir()
	return config.DefaultConfig(dir)
}
