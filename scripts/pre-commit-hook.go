//go:build ignore

// pre-commit-hook rejects commits that carry an injected PostHog token.
// Install with:
//
//	printf '#!/bin/sh\nexec go run scripts/pre-commit-hook.go\n' > .git/hooks/pre-commit
package main

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

const versionFile = "cmd/crashdemo/version.go"

func main() {
	out, err := exec.Command("git", "diff", "--cached", "--name-only").Output()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting staged files: %v\n", err)
		os.Exit(1)
	}

	staged := false
	for _, file := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if file == versionFile {
			staged = true
			break
		}
	}
	if !staged {
		os.Exit(0)
	}

	content, err := exec.Command("git", "show", ":"+versionFile).Output()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading staged %s: %v\n", versionFile, err)
		os.Exit(1)
	}

	re := regexp.MustCompile(`const POSTHOG_TOKEN = "([^"]*)"`)
	if m := re.FindStringSubmatch(string(content)); len(m) > 1 && m[1] != "" {
		fmt.Fprintf(os.Stderr, "\n❌ COMMIT REJECTED: PostHog token found in %s\n", versionFile)
		fmt.Fprintf(os.Stderr, "POSTHOG_TOKEN must be empty in commits; it is injected by scripts/build-inject.go.\n")
		fmt.Fprintf(os.Stderr, "\nFound: const POSTHOG_TOKEN = \"%s\"\n", m[1])
		fmt.Fprintf(os.Stderr, "\nReset it to \"\" and run: git add %s\n\n", versionFile)
		os.Exit(1)
	}

	fmt.Println("✓ PostHog token check passed")
}
