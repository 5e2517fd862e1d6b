// Package platform holds the outward-facing sinks: the system clipboard and
// the places an export can be delivered to.
package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/existflow/notepado/internal/config"
	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/logger"
	"golang.org/x/term"
)

// Clipboard writes to the system clipboard.
type Clipboard struct{}

func (Clipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errs.New(errs.Clipboard, "no clipboard utility found")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errs.Wrap(errs.Clipboard, "write clipboard", err)
	}
	return nil
}

// FileSink saves exports as files in Dir, like a browser download.
type FileSink struct {
	Dir string
	Log *logger.Logger
}

func (s FileSink) Deliver(ctx context.Context, name string, payload []byte) error {
	path, err := writeExport(s.Dir, name, payload)
	if err != nil {
		return err
	}
	if s.Log != nil {
		s.Log.Info("Export written", logger.F("path", path))
	}
	return nil
}

// ShareSink writes the export into Dir and hands its path to Command, the
// way a packaged app opens its share sheet.
type ShareSink struct {
	Dir     string
	Command string
	Log     *logger.Logger
}

func (s ShareSink) Deliver(ctx context.Context, name string, payload []byte) error {
	args := strings.Fields(s.Command)
	if len(args) == 0 {
		return errs.New(errs.Share, "no share command configured")
	}
	path, err := writeExport(s.Dir, name, payload)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = "share command failed"
		}
		return errs.Wrap(errs.Share, msg, err)
	}
	if s.Log != nil {
		s.Log.Info("Export shared", logger.F("path", path), logger.F("command", args[0]))
	}
	return nil
}

// WriterSink streams the payload to W, used when stdout is piped.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(ctx context.Context, name string, payload []byte) error {
	if _, err := s.W.Write(payload); err != nil {
		return errs.Wrap(errs.Share, "write export", err)
	}
	if len(payload) == 0 || payload[len(payload)-1] != '\n' {
		_, _ = io.WriteString(s.W, "\n")
	}
	return nil
}

func writeExport(dir, name string, payload []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errs.Wrap(errs.Share, "create export directory", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", errs.Wrap(errs.Share, fmt.Sprintf("write %s", path), err)
	}
	return path, nil
}

// ExportSink delivers an exported file.
type ExportSink interface {
	Deliver(ctx context.Context, name string, payload []byte) error
}

// SinkFor picks the export target for the configured platform.
func SinkFor(cfg *config.Config, log *logger.Logger) ExportSink {
	if cfg.Platform == config.PlatformApp {
		return ShareSink{Dir: filepath.Dir(cfg.DBPath), Command: cfg.ShareCommand, Log: log}
	}
	return FileSink{Dir: cfg.ExportDir, Log: log}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
