// Package ads drives the native ad bridge of the packaged app: initialization,
// interstitials with a cooldown, the banner, and reloading after dismissal.
package ads

import (
	"context"
	"os/exec"
	"strings"

	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/logger"
)

// Bridge operation names, also the helper's first argument.
const (
	OpInitialize       = "initializeAd"
	OpLoadInterstitial = "loadInterstitial"
	OpShowInterstitial = "showInterstitial"
	OpShowBanner       = "showBanner"
	OpHideBanner       = "hideBanner"
)

// Bridge is the capability set exposed by the native shell.
type Bridge interface {
	Initialize(ctx context.Context) error
	LoadInterstitial(ctx context.Context) error
	ShowInterstitial(ctx context.Context) error
	ShowBanner(ctx context.Context) error
	HideBanner(ctx context.Context) error
}

// Dismisser is implemented by bridges that report when an interstitial is
// closed by the user.
type Dismisser interface {
	Dismissed() <-chan struct{}
}

// CommandBridge runs an external helper as `<helper> <operation>`. The helper
// returning from showInterstitial means the ad was dismissed.
type CommandBridge struct {
	helper    []string
	log       *logger.Logger
	dismissed chan struct{}
}

// NewCommandBridge creates a bridge around helper, which may carry
// arguments.
func NewCommandBridge(helper string, log *logger.Logger) *CommandBridge {
	if log == nil {
		log = logger.Nop()
	}
	return &CommandBridge{
		helper:    strings.Fields(helper),
		log:       log.WithFields(logger.F("component", "ads")),
		dismissed: make(chan struct{}, 1),
	}
}

func (b *CommandBridge) run(ctx context.Context, op string) error {
	if len(b.helper) == 0 {
		return errs.New(errs.Ads, "no ad helper configured")
	}
	args := append(append([]string(nil), b.helper[1:]...), op)
	out, err := exec.CommandContext(ctx, b.helper[0], args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = op + " failed"
		}
		return errs.Wrap(errs.Ads, msg, err)
	}
	b.log.Debug("Ad bridge call", logger.F("op", op))
	return nil
}

func (b *CommandBridge) Initialize(ctx context.Context) error { return b.run(ctx, OpInitialize) }

func (b *CommandBridge) LoadInterstitial(ctx context.Context) error {
	return b.run(ctx, OpLoadInterstitial)
}

func (b *CommandBridge) ShowInterstitial(ctx context.Context) error {
	if err := b.run(ctx, OpShowInterstitial); err != nil {
		return err
	}
	select {
	case b.dismissed <- struct{}{}:
	default:
	}
	return nil
}

func (b *CommandBridge) ShowBanner(ctx context.Context) error { return b.run(ctx, OpShowBanner) }

func (b *CommandBridge) HideBanner(ctx context.Context) error { return b.run(ctx, OpHideBanner) }

func (b *CommandBridge) Dismissed() <-chan struct{} { return b.dismissed }

// NopBridge stands in outside the packaged app; it only logs.
type NopBridge struct {
	Log *logger.Logger
}

func (b NopBridge) note(op string) error {
	if b.Log != nil {
		b.Log.Debug("Ad operation skipped outside the app", logger.F("op", op))
	}
	return nil
}

func (b NopBridge) Initialize(context.Context) error { return b.note(OpInitialize) }
func (b NopBridge) LoadInterstitial(context.Context) error { return b.note(OpLoadInterstitial) }
func (b NopBridge) ShowInterstitial(context.Context) error { return b.note(OpShowInterstitial) }
func (b NopBridge) ShowBanner(context.Context) error { return b.note(OpShowBanner) }
func (b NopBridge) HideBanner(context.Context) error { return b.note(OpHideBanner) }
