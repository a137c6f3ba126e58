//go:build linux

package config

import "github.com/lzhiyong/xedit-app/internal/sigdesc"

const (
	DefaultWatchdogSeconds = 8
	DefaultAltStackKB      = 64
	DefaultTimeoutSeconds  = 5
	DefaultPostHogEndpoint = "https://us.i.posthog.com"
)

// Normalize fills defaults and canonicalizes signal names. It must only be
// called after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i, name := range cfg.Crash.Signals {
		if sig, ok := sigdesc.Lookup(name); ok {
			cfg.Crash.Signals[i] = sigdesc.Name(int32(sig))
		}
	}
	if cfg.Crash.WatchdogSeconds == 0 {
		cfg.Crash.WatchdogSeconds = DefaultWatchdogSeconds
	}
	if cfg.Crash.AltStackKB == 0 {
		cfg.Crash.AltStackKB = DefaultAltStackKB
	}

	if cfg.Report.PostHogEndpoint == "" {
		cfg.Report.PostHogEndpoint = DefaultPostHogEndpoint
	}
	if cfg.Report.TimeoutSeconds == 0 {
		cfg.Report.TimeoutSeconds = DefaultTimeoutSeconds
	}
}
