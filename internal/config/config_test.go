//go:build linux

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"signals", Config{Crash: CrashConfig{Signals: []string{"SIGSEGV", "abrt", "SigBus"}}}, ""},
		{"unknown signal", Config{Crash: CrashConfig{Signals: []string{"SIGNOPE"}}}, "unknown signal"},
		{"duplicate signal", Config{Crash: CrashConfig{Signals: []string{"SEGV", "SIGSEGV"}}}, "listed twice"},
		{"negative stack", Config{Crash: CrashConfig{AltStackKB: -1}}, "alt_stack_kb"},
		{"enabled without token", Config{Report: ReportConfig{PostHogEnabled: true}}, ""},
		{"bad installation id", Config{InstallationID: "not-a-uuid"}, "installation_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{
		Crash:  CrashConfig{Signals: []string{"segv", "SIGQUIT"}, WatchdogSeconds: -1},
		Report: ReportConfig{TimeoutSeconds: 2},
	}
	Normalize(cfg)

	if got := strings.Join(cfg.Crash.Signals, ","); got != "SIGSEGV,SIGQUIT" {
		t.Errorf("signals = %s", got)
	}
	if cfg.Crash.WatchdogSeconds != -1 {
		t.Errorf("watchdog disabled value rewritten to %d", cfg.Crash.WatchdogSeconds)
	}
	if cfg.Crash.AltStackKB != DefaultAltStackKB {
		t.Errorf("alt stack = %d", cfg.Crash.AltStackKB)
	}
	if cfg.Report.PostHogEndpoint != DefaultPostHogEndpoint || cfg.Report.TimeoutSeconds != 2 {
		t.Errorf("report = %+v", cfg.Report)
	}
}

func TestLoadGeneratesInstallationID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.yaml")
	err := os.WriteFile(path, []byte("crash:\n  signals: [SIGSEGV, SIGABRT]\n  watchdog_seconds: 3\nlog:\n  path: /tmp/x.log\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InstallationID == "" {
		t.Fatal("no installation id generated")
	}
	if cfg.Crash.WatchdogSeconds != 3 || len(cfg.Crash.Signals) != 2 || cfg.Log.Path != "/tmp/x.log" {
		t.Errorf("cfg = %+v", cfg)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again.InstallationID != cfg.InstallationID {
		t.Errorf("installation id changed: %s -> %s", cfg.InstallationID, again.InstallationID)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Crash.WatchdogSeconds != DefaultWatchdogSeconds || cfg.Crash.AltStackKB != DefaultAltStackKB {
		t.Errorf("defaults not applied: %+v", cfg.Crash)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config with installation id not written: %v", err)
	}
}

// The token may come from the build instead of the file.
func TestLoadPostHogEnabledWithoutToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.yaml")
	if err := os.WriteFile(path, []byte("report:\n  posthog_enabled: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Report.PostHogEnabled || cfg.Report.PostHogToken != "" {
		t.Errorf("report = %+v", cfg.Report)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("crash: [unterminated"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed YAML succeeded")
	}
}
