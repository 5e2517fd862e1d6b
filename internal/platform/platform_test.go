package platform

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/existflow/notepado/internal/config"
	"github.com/existflow/notepado/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkWritesExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := FileSink{Dir: dir}

	require.NoError(t, sink.Deliver(context.Background(), "notes-export-1.json", []byte(`[]`)))
	data, err := os.ReadFile(filepath.Join(dir, "notes-export-1.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileSinkKeepsNameInsideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, FileSink{Dir: dir}.Deliver(context.Background(), "../escape.json", []byte(`[]`)))
	_, err := os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, err)
}

func TestShareSinkRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "shared")
	script := filepath.Join(dir, "share.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp \"$1\" '"+marker+"'\n"), 0755))

	sink := ShareSink{Dir: dir, Command: script}
	require.NoError(t, sink.Deliver(context.Background(), "n.json", []byte(`[1]`)))

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))
}

func TestShareSinkFailures(t *testing.T) {
	ctx := context.Background()

	err := ShareSink{Dir: t.TempDir()}.Deliver(ctx, "n.json", nil)
	assert.True(t, errs.Is(err, errs.Share))

	err = ShareSink{Dir: t.TempDir(), Command: "/nonexistent/share-tool"}.Deliver(ctx, "n.json", nil)
	assert.True(t, errs.Is(err, errs.Share))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterSink{W: &buf}.Deliver(context.Background(), "ignored.json", []byte(`[]`)))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSinkFor(t *testing.T) {
	cfg := config.DefaultConfig(t.TempDir())
	assert.IsType(t, FileSink{}, SinkFor(cfg, nil))

	cfg.Platform = config.PlatformApp
	cfg.ShareCommand = "xdg-open"
	share, ok := SinkFor(cfg, nil).(ShareSink)
	require.True(t, ok)
	assert.Equal(t, filepath.Dir(cfg.DBPath), share.Dir)
}

func TestIsTerminalOnFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
