// Package config is the YAML configuration of the crash demo runtime.
package config

type Config struct {
	// InstallationID identifies this install in crash reports. Generated on
	// first load and written back.
	InstallationID string `yaml:"installation_id,omitempty"`

	Crash  CrashConfig  `yaml:"crash"`
	Log    LogConfig    `yaml:"log"`
	Report ReportConfig `yaml:"report"`
}

// ---- CRASH ----

type CrashConfig struct {
	// Signals to capture, by name. Empty means the default set.
	Signals []string `yaml:"signals"`

	// WatchdogSeconds is the alarm armed when a fault is caught. 0 means the
	// default, negative disables it.
	WatchdogSeconds int `yaml:"watchdog_seconds"`

	// AltStackKB is the alternate signal stack size. 0 means the default.
	AltStackKB int `yaml:"alt_stack_kb"`
}

// ---- LOG ----

type LogConfig struct {
	// Path of the log file; empty logs to stderr.
	Path string `yaml:"path"`
}

// ---- REPORT ----

type ReportConfig struct {
	PostHogEnabled     bool   `yaml:"posthog_enabled"`
	PostHogToken       string `yaml:"posthog_token"`
	PostHogEndpoint    string `yaml:"posthog_endpoint"`
	PostHogInsecureTLS bool   `yaml:"posthog_insecure_tls"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`

	// ScreenPath, when set, receives a PNG crash screen.
	ScreenPath string `yaml:"screen_path"`

	// Reraise restores the default disposition and re-sends the signal once
	// the report has been handled.
	Reraise bool `yaml:"reraise"`
}
