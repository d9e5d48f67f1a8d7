//go:build mage

// Package main contains Mage build targets for changelog-md.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "changelog-md"
	cmdPkg     = "./cmd/changelog-md"
	versionPkg = "github.com/asdf-format/changelog-md/internal/version"
	changelog  = "internal/changelog/CHANGES.rst"
)

var binPath = filepath.Join(binDir, binName)

// ldflags stamps the version package with the current tag, commit and date.
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}
	return strings.Join([]string{
		"-s -w",
		fmt.Sprintf("-X %s.Version=%s", versionPkg, strings.TrimPrefix(version, "v")),
		fmt.Sprintf("-X %s.Commit=%s", versionPkg, commit),
		fmt.Sprintf("-X %s.BuildDate=%s", versionPkg, time.Now().UTC().Format(time.RFC3339)),
	}, " ")
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// E2E runs the end-to-end tests against a freshly built binary.
func E2E() error {
	return sh.RunV("go", "test", "-tags", "e2e", "-count=1", "./tests/e2e/...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs lint and all tests.
func Check() {
	mg.SerialDeps(Lint, Test, E2E)
}

// Notes prints the release notes of the newest entry in the project's own
// changelog, the way the release workflow does.
func Notes() error {
	mg.Deps(Build)
	return sh.RunV(binPath, changelog)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
