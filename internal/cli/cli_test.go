package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/richtext"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes args against a fresh flag state and returns what the command
// wrote through cmd.OutOrStdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func useHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NOTEPADO_HOME", dir)
	t.Setenv("NOTEPADO_DB", "")
	t.Setenv("NOTEPADO_EXPORT_DIR", "")
	t.Setenv("NOTEPADO_PLATFORM", "")
	return dir
}

func stored(t *testing.T) []model.Note {
	t.Helper()
	a, err := openApp(context.Background(), appOptions{})
	require.NoError(t, err)
	defer a.close(context.Background())
	return a.notes.View()
}

func TestCommandsEditTheList(t *testing.T) {
	useHome(t)

	_, err := run(t, "add", "Groceries", "-d", "milk", "-c", "green")
	require.NoError(t, err)
	_, err = run(t, "add", "Work")
	require.NoError(t, err)

	list := stored(t)
	require.Len(t, list, 2)
	assert.Equal(t, "Work", list[0].Title, "new notes go to the top")
	assert.Equal(t, model.ColorDefault, list[0].BgColor)
	assert.Equal(t, model.ColorGreen, list[1].BgColor)
	assert.Equal(t, "milk", richtext.PlainText(list[1].Description))

	_, err = run(t, "move", "2", "1")
	require.NoError(t, err)
	_, err = run(t, "color", "1", "red")
	require.NoError(t, err)
	_, err = run(t, "edit", "2", "--title", "Work stuff")
	require.NoError(t, err)

	list = stored(t)
	require.Len(t, list, 2)
	assert.Equal(t, "Groceries", list[0].Title)
	assert.Equal(t, model.ColorRed, list[0].BgColor)
	assert.Equal(t, "Work stuff", list[1].Title)

	_, err = run(t, "rm", "2", "--force")
	require.NoError(t, err)
	list = stored(t)
	require.Len(t, list, 1)
	assert.Equal(t, "Groceries", list[0].Title)
}

func TestEditPurgesEmptiedNote(t *testing.T) {
	useHome(t)

	_, err := run(t, "add", "Scratch")
	require.NoError(t, err)
	_, err = run(t, "edit", "1", "--title", "")
	require.NoError(t, err)

	assert.Empty(t, stored(t))
}

func TestEditDescription(t *testing.T) {
	useHome(t)

	_, err := run(t, "add", "Groceries", "-d", "milk")
	require.NoError(t, err)
	_, err = run(t, "edit", "1", "-d", "eggs\nbread")
	require.NoError(t, err)

	list := stored(t)
	require.Len(t, list, 1)
	assert.Equal(t, "eggs\nbread", richtext.PlainText(list[0].Description))
	assert.NotEqual(t, list[0].CreationDate, "")
}

func TestExportThenImport(t *testing.T) {
	useHome(t)

	_, err := run(t, "add", "Groceries", "--markup", "<p><b>milk</b><script>x</script></p>")
	require.NoError(t, err)

	out, err := run(t, "export", "--all", "--stdout")
	require.NoError(t, err)

	var exported []model.Note
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "Groceries", exported[0].Title)
	assert.NotContains(t, exported[0].Description, "script")

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0644))
	_, err = run(t, "import", path)
	require.NoError(t, err)

	list := stored(t)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].ID, list[1].ID, "imported copy gets a fresh id")
}

func TestImportRejectsInvalidFile(t *testing.T) {
	useHome(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"title":"ok","description":"","creationDate":"01.01.2024, 10:00:00"},{"id":"x"}]`), 0644))

	_, err := run(t, "import", path)
	require.Error(t, err)
	assert.Empty(t, stored(t))
}

func TestSortDefaultIsSaved(t *testing.T) {
	useHome(t)

	_, err := run(t, "sort", "modified-newest")
	require.NoError(t, err)
	assert.Equal(t, "modified-newest", loadedConfig().DefaultSort)

	_, err = run(t, "sort", "sideways")
	assert.Error(t, err)
}

func TestLangValidates(t *testing.T) {
	useHome(t)

	_, err := run(t, "lang", "de-AT")
	require.NoError(t, err)

	a, err := openApp(context.Background(), appOptions{})
	require.NoError(t, err)
	defer a.close(context.Background())
	assert.Equal(t, "de", a.language.String())

	_, err = run(t, "lang", "not a language")
	assert.True(t, errs.Is(err, errs.Validation))
}

func TestResolveRef(t *testing.T) {
	useHome(t)

	_, err := run(t, "add", "Groceries")
	require.NoError(t, err)

	a, err := openApp(context.Background(), appOptions{})
	require.NoError(t, err)
	defer a.close(context.Background())

	byIndex, err := resolveRef(a.notes, "1")
	require.NoError(t, err)
	byID, err := resolveRef(a.notes, strconv.FormatInt(byIndex.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, byIndex.ID, byID.ID)

	_, err = resolveRef(a.notes, "2")
	assert.True(t, errs.Is(err, errs.NotFound))
	_, err = resolveRef(a.notes, "first")
	assert.True(t, errs.Is(err, errs.Validation))

	list, err := resolveRefs(a.notes, []string{"1", "1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
