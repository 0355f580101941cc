// Package media resolves question media paths and hands files to the
// desktop's default viewer.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound is returned when a resolved media file does not exist.
var ErrNotFound = errors.New("media file not found")

// Opener launches an external program for a file.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, path string) error

func (f OpenerFunc) Open(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Resolver resolves media paths relative to a question set directory.
type Resolver struct {
	BaseDir string
	Opener  Opener
}

// NewResolver returns a resolver for baseDir using the platform opener.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{BaseDir: baseDir, Opener: SystemOpener{GOOS: runtime.GOOS}}
}

// Resolve returns p unchanged when it is absolute or no base directory is
// set, and joined to the base directory otherwise. Backslash separators
// from sets authored on Windows are accepted.
func (r *Resolver) Resolve(p string) string {
	if p == "" {
		return ""
	}
	p = filepath.FromSlash(strings.ReplaceAll(p, "\\", "/"))
	if r.BaseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.BaseDir, p)
}

// Exists reports whether the resolved path is an existing regular file.
func (r *Resolver) Exists(p string) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(r.Resolve(p))
	return err == nil && info.Mode().IsRegular()
}

// Open resolves p and opens it with the configured opener.
func (r *Resolver) Open(ctx context.Context, p string) error {
	path := r.Resolve(p)
	if !r.Exists(p) {
		return fmt.Errorf("open %s: %w", path, ErrNotFound)
	}
	if r.Opener == nil {
		return fmt.Errorf("open %s: no opener configured", path)
	}
	if err := r.Opener.Open(ctx, path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// SystemOpener starts the platform's default file handler without
// waiting for it to exit.
type SystemOpener struct {
	GOOS string
}

// Command returns the program and arguments used to open path on goos.
func Command(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

func (o SystemOpener) Open(ctx context.Context, path string) error {
	name, args := Command(o.GOOS, path)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
