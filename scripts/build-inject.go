//go:build ignore

// build-inject writes the PostHog token from .env into the crashdemo
// version file before a release build. Run from the project root:
//
//	go run scripts/build-inject.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const versionFile = "cmd/crashdemo/version.go"

var (
	tokenLine   = regexp.MustCompile(`const POSTHOG_TOKEN = ".*" // Injected at build time`)
	versionLine = regexp.MustCompile(`APP_VERSION\s*=\s*"([^"]+)"`)
	envToken    = regexp.MustCompile(`(?m)^POSTHOG_TOKEN=(.+)$`)
)

func main() {
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	token := ""
	if data, err := os.ReadFile(filepath.Join(projectRoot, ".env")); err == nil {
		if m := envToken.FindStringSubmatch(string(data)); len(m) > 1 {
			token = strings.TrimSpace(m[1])
			fmt.Println("✓ Loaded PostHog token from .env")
		}
	}
	if token == "" {
		fmt.Println("⚠ No PostHog token in .env, crash reports stay local")
	}

	path := filepath.Join(projectRoot, versionFile)
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", versionFile, err)
		os.Exit(1)
	}

	version := "0.0.0"
	if m := versionLine.FindStringSubmatch(string(content)); len(m) > 1 {
		version = m[1]
	}
	fmt.Printf("✓ Building crashdemo %s\n", version)

	updated := tokenLine.ReplaceAllString(string(content), fmt.Sprintf(`const POSTHOG_TOKEN = "%s" // Injected at build time`, token))
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", versionFile, err)
		os.Exit(1)
	}
	fmt.Printf("✓ Injected PostHog token into %s\n", versionFile)
}
