//go:build linux

package config

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lzhiyong/xedit-app/internal/sigdesc"
)

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg.InstallationID != "" {
		if _, err := uuid.Parse(cfg.InstallationID); err != nil {
			return errors.Wrap(err, "installation_id")
		}
	}

	seen := make(map[string]bool)
	for _, name := range cfg.Crash.Signals {
		sig, ok := sigdesc.Lookup(name)
		if !ok {
			return errors.Errorf("crash.signals: unknown signal %q", name)
		}
		canonical := sigdesc.Name(int32(sig))
		if seen[canonical] {
			return errors.Errorf("crash.signals: %s listed twice", canonical)
		}
		seen[canonical] = true
	}

	if cfg.Crash.AltStackKB < 0 {
		return errors.Errorf("crash.alt_stack_kb must not be negative, got %d", cfg.Crash.AltStackKB)
	}

	if cfg.Report.TimeoutSeconds < 0 {
		return errors.Errorf("report.timeout_seconds must not be negative, got %d", cfg.Report.TimeoutSeconds)
	}
	return nil
}
