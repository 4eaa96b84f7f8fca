// Package fstest provides scratch-image fixtures for tests across the
// module, mirroring the teacher's own testing-helper package.
package fstest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apat496/imagefs"
	"github.com/apat496/imagefs/image"
)

// NewImage creates a fresh, empty image backed by a temp file and
// registers its cleanup with t.
func NewImage(t *testing.T) *image.Image {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scratch.img")
	img, err := image.OpenImage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = img.Close() })
	return img
}

// ImagePath returns a path for a scratch image inside a fresh temp dir,
// without opening it, for tests that exercise OpenImage itself.
func ImagePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "scratch.img")
}

// NewFilesystem opens a fresh Filesystem backed by a temp file and
// registers its cleanup with t.
func NewFilesystem(t *testing.T) *imagefs.Filesystem {
	t.Helper()
	fs, err := imagefs.Open(filepath.Join(t.TempDir(), "scratch.img"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}
