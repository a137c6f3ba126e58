//go:build ignore

// update-version bumps APP_VERSION in the crashdemo version file.
//
//	go run scripts/update-version.go 1.2.3
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const versionFile = "cmd/crashdemo/version.go"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run scripts/update-version.go <version>")
		os.Exit(1)
	}
	version := os.Args[1]

	if ok, _ := regexp.MatchString(`^\d+\.\d+\.\d+$`, version); !ok {
		fmt.Fprintln(os.Stderr, "Error: version must look like X.Y.Z (e.g. 1.0.0)")
		os.Exit(1)
	}

	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(projectRoot, versionFile)
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", versionFile, err)
		os.Exit(1)
	}

	re := regexp.MustCompile(`APP_VERSION = "[^"]+"`)
	if !re.Match(content) {
		fmt.Fprintf(os.Stderr, "Error: no APP_VERSION in %s\n", versionFile)
		os.Exit(1)
	}
	updated := re.ReplaceAll(content, []byte(fmt.Sprintf(`APP_VERSION = "%s"`, version)))
	if err := os.WriteFile(path, updated, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", versionFile, err)
		os.Exit(1)
	}
	fmt.Printf("✓ Version updated to %s in %s\n", version, versionFile)
}
