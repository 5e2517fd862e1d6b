package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/existflow/notepado/internal/ads"
	"github.com/existflow/notepado/internal/config"
	"github.com/existflow/notepado/internal/db"
	"github.com/existflow/notepado/internal/docstore"
	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/kv"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/notes"
	"github.com/existflow/notepado/internal/platform"
	"github.com/existflow/notepado/internal/prefs"
	"golang.org/x/text/language"
)

// app is everything a command needs, opened from the loaded config
type app struct {
	cfg      *config.Config
	db       *db.DB
	notes    *notelist.Controller
	prefs    *prefs.Store
	ads      *ads.Manager
	language language.Tag
	closed   bool
}

type appOptions struct {
	Notifier notelist.Notifier
	Sink     notelist.Sink

	// KeepOnLoadError opens the app with an empty list when notes cannot be read
	KeepOnLoadError bool
}

// printNotifier shows info notices; failures reach the user as returned errors
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Notify(n notelist.Notice) {
	if n.Level == notelist.LevelInfo {
		fmt.Fprintf(p.w, "✓ %s\n", n.Message)
	}
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg := appConfig
	if cfg == nil {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		cfg = config.DefaultConfig(dir)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		appLog.Error("Failed to open database", logger.F("error", err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := kv.New(database)
	repo := notes.NewRepository(docstore.New(database), store, appLog)

	state := notelist.NewState()
	if mode, ok := notelist.ParseSortMode(cfg.DefaultSort); ok {
		state.Sort = mode
	} else {
		appLog.Warn("Unknown default sort, using manual", logger.F("sort", cfg.DefaultSort))
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = printNotifier{w: os.Stderr}
	}
	sink := opts.Sink
	if sink == nil {
		sink = platform.SinkFor(cfg, appLog)
	}

	ctrl := notelist.New(repo, notelist.Options{
		State:     state,
		Debounce:  cfg.Debounce,
		Notifier:  notifier,
		Clipboard: platform.Clipboard{},
		Sink:      sink,
		Logger:    appLog,
	})
	if err := ctrl.Load(ctx); err != nil && !opts.KeepOnLoadError {
		_ = database.Close()
		return nil, err
	}

	p := prefs.New(store)
	tag, err := p.Language(ctx, localeEnv())
	if err != nil {
		appLog.Warn("Failed to read language preference", logger.F("error", err))
	}

	// Ads only exist inside the packaged app
	var manager *ads.Manager
	if cfg.Platform == config.PlatformApp {
		var bridge ads.Bridge = ads.NopBridge{Log: appLog}
		if cfg.AdHelper != "" {
			bridge = ads.NewCommandBridge(cfg.AdHelper, appLog)
		}
		manager = ads.NewManager(bridge, ads.Options{
			Cooldown: cfg.InterstitialCooldown,
			Premium:  cfg.Premium,
			Logger:   appLog,
		})
	}

	return &app{
		cfg:      cfg,
		db:       database,
		notes:    ctrl,
		prefs:    p,
		ads:      manager,
		language: tag,
	}, nil
}

// close writes pending edits and releases the database. Safe to call twice.
func (a *app) close(ctx context.Context) error {
	if a.closed {
		return nil
	}
	a.closed = true

	flushErr := a.notes.Flush(ctx)
	a.notes.Close()
	if err := a.db.Close(); err != nil {
		appLog.Warn("Failed to close database", logger.F("error", err))
	}
	appLog.Debug("Database closed")
	return flushErr
}

// localeEnv returns the locale in POSIX precedence order
func localeEnv() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// resolveRef finds a note by its 1-based position in the list view or by id
func resolveRef(ctrl *notelist.Controller, ref string) (model.Note, error) {
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return model.Note{}, errs.New(errs.Validation, fmt.Sprintf("invalid note reference %q", ref))
	}

	view := ctrl.View()
	if n >= 1 && n <= int64(len(view)) {
		return view[n-1], nil
	}
	if note, ok := ctrl.Note(n); ok {
		return note, nil
	}
	return model.Note{}, errs.New(errs.NotFound, fmt.Sprintf("note not found: %s", ref))
}

// resolveRefs resolves every ref before anything is changed
func resolveRefs(ctrl *notelist.Controller, refs []string) ([]model.Note, error) {
	out := make([]model.Note, 0, len(refs))
	seen := make(map[int64]bool, len(refs))
	var errList []error
	for _, ref := range refs {
		note, err := resolveRef(ctrl, ref)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if !seen[note.ID] {
			seen[note.ID] = true
			out = append(out, note)
		}
	}
	return out, errors.Join(errList...)
}

func noteIDs(list []model.Note) []int64 {
	ids := make([]int64, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	return ids
}

// displayTitle is the title, or a stand-in for untitled notes
func displayTitle(n model.Note) string {
	if n.Title == "" {
		return "(untitled)"
	}
	return n.Title
}

// confirm asks on stdin and reports whether the answer was yes
func confirm(prompt string) bool {
	fmt.Println(prompt)
	fmt.Print("Are you sure? [y/N]: ")
	var answer string
	_, _ = fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}
