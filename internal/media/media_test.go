package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := &Resolver{BaseDir: filepath.FromSlash("/sets/french")}

	tests := []struct {
		in, want string
	}{
		{"img/cat.png", filepath.FromSlash("/sets/french/img/cat.png")},
		{`img\cat.png`, filepath.FromSlash("/sets/french/img/cat.png")},
		{filepath.FromSlash("/abs/cat.png"), filepath.FromSlash("/abs/cat.png")},
		{"", ""},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	bare := &Resolver{}
	if got := bare.Resolve("img/cat.png"); got != filepath.FromSlash("img/cat.png") {
		t.Errorf("Resolve without base = %q", got)
	}
}

func TestExistsAndOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "audio"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audio", "a.mp3"), []byte("x"), 0o644))

	var opened string
	r := &Resolver{BaseDir: dir, Opener: OpenerFunc(func(_ context.Context, p string) error {
		opened = p
		return nil
	})}

	assert.True(t, r.Exists("audio/a.mp3"))
	assert.False(t, r.Exists("audio"), "directories are not media")
	assert.False(t, r.Exists("audio/missing.mp3"))

	require.NoError(t, r.Open(context.Background(), "audio/a.mp3"))
	assert.Equal(t, filepath.Join(dir, "audio", "a.mp3"), opened)

	err := r.Open(context.Background(), "audio/missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenPropagatesOpenerError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v.mp4"), []byte("x"), 0o644))
	boom := errors.New("no viewer")
	r := &Resolver{BaseDir: dir, Opener: OpenerFunc(func(context.Context, string) error { return boom })}
	assert.ErrorIs(t, r.Open(context.Background(), "v.mp4"), boom)
}

func TestCommand(t *testing.T) {
	name, args := Command("darwin", "/f")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"/f"}, args)

	name, _ = Command("linux", "/f")
	assert.Equal(t, "xdg-open", name)

	name, args = Command("windows", `C:\f`)
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, `C:\f`, args[len(args)-1])
}
