package ads

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/notepado/internal/clock"
	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/logger"
)

// DefaultCooldown is the minimum gap between interstitials.
const DefaultCooldown = 15 * time.Minute

// Options configures a Manager.
type Options struct {
	Clock    clock.Clock
	Cooldown time.Duration
	Premium  bool
	Logger   *logger.Logger
}

// Manager guards a Bridge: it initializes once, refuses calls before that,
// skips interstitials for premium users and throttles them.
type Manager struct {
	mu          sync.Mutex
	bridge      Bridge
	clock       clock.Clock
	cooldown    time.Duration
	premium     bool
	log         *logger.Logger
	initialized bool
	lastShown   time.Time
	banner      bool
}

// NewManager wraps bridge.
func NewManager(bridge Bridge, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Manager{
		bridge:   bridge,
		clock:    opts.Clock,
		cooldown: opts.Cooldown,
		premium:  opts.Premium,
		log:      opts.Logger.WithFields(logger.F("component", "ads")),
	}
}

var errNotInitialized = errs.New(errs.Ads, "ads are not initialized")

// Initialize sets up the bridge and preloads an interstitial. Later calls do
// nothing.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := m.bridge.Initialize(ctx); err != nil {
		m.log.Error("Ad bridge failed to initialize", logger.F("error", err))
		return errs.Wrap(errs.Ads, "initialize ads", err)
	}
	m.initialized = true
	m.log.Info("Ads initialized", logger.F("premium", m.premium))

	if err := m.bridge.LoadInterstitial(ctx); err != nil {
		m.log.Warn("Interstitial preload failed", logger.F("error", err))
		return errs.Wrap(errs.Ads, "load interstitial", err)
	}
	return nil
}

// Initialized reports whether Initialize succeeded.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// LoadInterstitial preloads the next interstitial.
func (m *Manager) LoadInterstitial(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return errNotInitialized
	}
	return m.bridge.LoadInterstitial(ctx)
}

// ShowInterstitial shows a full-screen ad unless the user is premium or one
// was shown within the cooldown. force skips the cooldown without starting a
// new one. It reports whether the bridge was asked to show the ad.
func (m *Manager) ShowInterstitial(ctx context.Context, force bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return false, errNotInitialized
	}
	if m.premium {
		return false, nil
	}
	now := m.clock.Now()
	if !force {
		if !m.lastShown.IsZero() && now.Sub(m.lastShown) < m.cooldown {
			m.log.Debug("Interstitial in cooldown", logger.F("since", now.Sub(m.lastShown)))
			return false, nil
		}
		m.lastShown = now
	}

	if err := m.bridge.ShowInterstitial(ctx); err != nil {
		m.log.Error("Failed to show interstitial", logger.F("error", err))
		return false, errs.Wrap(errs.Ads, "show interstitial", err)
	}
	return true, nil
}

// ShowBanner shows the banner for non-premium users.
func (m *Manager) ShowBanner(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return errNotInitialized
	}
	if m.premium {
		return nil
	}
	if err := m.bridge.ShowBanner(ctx); err != nil {
		return errs.Wrap(errs.Ads, "show banner", err)
	}
	m.banner = true
	return nil
}

// HideBanner hides the banner.
func (m *Manager) HideBanner(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return errNotInitialized
	}
	if err := m.bridge.HideBanner(ctx); err != nil {
		return errs.Wrap(errs.Ads, "hide banner", err)
	}
	m.banner = false
	return nil
}

// BannerVisible reports whether the banner was last shown.
func (m *Manager) BannerVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.banner
}

// HandleDismissed reloads an interstitial after the user closed one.
func (m *Manager) HandleDismissed(ctx context.Context) error {
	m.log.Debug("Interstitial dismissed, reloading")
	if err := m.LoadInterstitial(ctx); err != nil {
		m.log.Warn("Interstitial reload failed", logger.F("error", err))
		return err
	}
	return nil
}

// Run reacts to dismissal events until ctx ends. Bridges without dismissal
// events return at once.
func (m *Manager) Run(ctx context.Context) error {
	d, ok := m.bridge.(Dismisser)
	if !ok {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.Dismissed():
			_ = m.HandleDismissed(ctx)
		}
	}
}
