// Package modeconv translates between the on-image mode integer stored in
// a layout.Inode and the standard library's os.FileMode, the way a host
// filesystem bridge needs when it hands attributes back to the kernel.
// Grounded on the teacher's flags.go S_IF*/S_IR* constants and the
// ConvertFSFlagsToStandard/ConvertStandardFlagsToFS pair in
// drivers/unixv1/common.go.
package modeconv

import (
	"os"

	"github.com/apat496/imagefs/layout"
)

// ToFileMode converts an on-image mode integer to an os.FileMode,
// translating the type bits and carrying the permission bits through
// unchanged.
func ToFileMode(mode uint32) os.FileMode {
	perm := os.FileMode(mode & layout.ModePermMask)

	switch mode & layout.ModeTypeMask {
	case layout.ModeDir:
		return os.ModeDir | perm
	default:
		return perm
	}
}

// FromFileMode converts an os.FileMode back to the on-image mode integer.
// A directory always carries the execute bit for every class, matching
// the teacher's comment that directories must be marked executable on
// modern systems.
func FromFileMode(fm os.FileMode) uint32 {
	perm := uint32(fm.Perm())

	if fm.IsDir() {
		return layout.ModeDir | perm | execForAllClasses
	}
	return layout.ModeRegular | perm
}

// execForAllClasses is S_IXUSR|S_IXGRP|S_IXOTH.
const execForAllClasses = 0111

// WithDirectoryExecuteBits forces the execute bit on for every class of an
// on-image mode integer that names a directory, leaving a non-directory
// mode untouched. Mknod/Mkdir call this so a caller can't create a
// directory missing its traversal bit.
func WithDirectoryExecuteBits(mode uint32) uint32 {
	if mode&layout.ModeTypeMask == layout.ModeDir {
		return mode | execForAllClasses
	}
	return mode
}
