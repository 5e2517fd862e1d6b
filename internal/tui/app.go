package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/notelist"
)

// Notices carries controller notices to the status line. Notify never blocks;
// when the buffer is full the oldest notice is dropped.
type Notices struct {
	ch chan notelist.Notice
}

// NewNotices creates a notice channel holding up to size notices
func NewNotices(size int) *Notices {
	if size <= 0 {
		size = 1
	}
	return &Notices{ch: make(chan notelist.Notice, size)}
}

// Notify implements notelist.Notifier
func (n *Notices) Notify(notice notelist.Notice) {
	for {
		select {
		case n.ch <- notice:
			return
		default:
		}
		select {
		case <-n.ch:
		default:
		}
	}
}

// C returns the receive side
func (n *Notices) C() <-chan notelist.Notice {
	return n.ch
}

// Run shows the TUI until the user quits. The ad manager's dismissal loop
// runs alongside it.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = ctx
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	if opts.Ads != nil {
		go func() {
			if err := opts.Ads.Run(ctx); err != nil && ctx.Err() == nil {
				opts.Logger.Warn("Ad loop stopped", logger.F("error", err))
			}
		}()
	}

	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
