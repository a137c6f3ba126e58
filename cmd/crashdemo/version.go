//go:build linux

package main

const (
	APP_NAME    = "xedit"
	APP_VERSION = "0.1.0"
)

// POSTHOG_TOKEN is used when the config has no token.
const POSTHOG_TOKEN = "" // Injected at build time
