package modeconv_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apat496/imagefs/layout"
	"github.com/apat496/imagefs/modeconv"
)

func TestToFileModeDirectory(t *testing.T) {
	fm := modeconv.ToFileMode(layout.ModeDir | 0755)
	assert.True(t, fm.IsDir())
	assert.Equal(t, os.FileMode(0755), fm.Perm())
}

func TestToFileModeRegular(t *testing.T) {
	fm := modeconv.ToFileMode(layout.ModeRegular | 0644)
	assert.False(t, fm.IsDir())
	assert.Equal(t, os.FileMode(0644), fm.Perm())
}

func TestFromFileModeDirectoryForcesExecuteBits(t *testing.T) {
	mode := modeconv.FromFileMode(os.ModeDir | 0644)
	assert.Equal(t, layout.ModeDir, mode&layout.ModeTypeMask)
	assert.Equal(t, uint32(0755), mode&layout.ModePermMask)
}

func TestWithDirectoryExecuteBitsLeavesFilesAlone(t *testing.T) {
	mode := modeconv.WithDirectoryExecuteBits(layout.ModeRegular | 0644)
	assert.Equal(t, layout.ModeRegular|0644, mode)
}

func TestWithDirectoryExecuteBitsForcesOnDirectories(t *testing.T) {
	mode := modeconv.WithDirectoryExecuteBits(layout.ModeDir | 0644)
	assert.Equal(t, layout.ModeDir|0755, mode)
}
