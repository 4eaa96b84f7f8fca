// Package errs defines the sentinel errors returned by every layer of the
// image-backed filesystem core. Every operation that can fail returns one of
// these (or nil) so a bridge layer can map straight back to a POSIX errno.
package errs

import (
	"fmt"
	"syscall"
)

// FSError wraps a POSIX errno code with an optional contextual message. It
// satisfies errors.Is against the sentinel it was built from.
type FSError struct {
	errno   syscall.Errno
	message string
}

func (e *FSError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s: %s", e.errno.Error(), e.message)
	}
	return e.errno.Error()
}

// Errno returns the POSIX code a bridge layer should surface to the kernel.
func (e *FSError) Errno() syscall.Errno {
	return e.errno
}

func (e *FSError) Is(target error) bool {
	other, ok := target.(*FSError)
	if !ok {
		return false
	}
	return other.errno == e.errno
}

func newSentinel(errno syscall.Errno) *FSError {
	return &FSError{errno: errno}
}

// WithMessage returns a copy of the sentinel carrying additional context.
func (e *FSError) WithMessage(format string, args ...any) *FSError {
	return &FSError{errno: e.errno, message: fmt.Sprintf(format, args...)}
}

var (
	// ErrNotFound corresponds to ENOENT: a path component is missing.
	ErrNotFound = newSentinel(syscall.ENOENT)
	// ErrExists corresponds to EEXIST: a create/link target already exists.
	ErrExists = newSentinel(syscall.EEXIST)
	// ErrNotADirectory corresponds to ENOTDIR.
	ErrNotADirectory = newSentinel(syscall.ENOTDIR)
	// ErrIsADirectory corresponds to EISDIR.
	ErrIsADirectory = newSentinel(syscall.EISDIR)
	// ErrDirectoryNotEmpty corresponds to ENOTEMPTY.
	ErrDirectoryNotEmpty = newSentinel(syscall.ENOTEMPTY)
	// ErrInvalidArgument corresponds to EINVAL.
	ErrInvalidArgument = newSentinel(syscall.EINVAL)
	// ErrNoSpace corresponds to ENOSPC: the block or inode allocator is
	// exhausted.
	ErrNoSpace = newSentinel(syscall.ENOSPC)
	// ErrDiskQuotaExceeded corresponds to EDQUOT. No operation in this module
	// returns it; allocator exhaustion is reported as ErrNoSpace.
	ErrDiskQuotaExceeded = newSentinel(syscall.EDQUOT)
	// ErrFileTooLarge corresponds to EFBIG: a write would exceed the direct
	// plus indirect capacity of an inode.
	ErrFileTooLarge = newSentinel(syscall.EFBIG)
	// ErrPermissionDenied corresponds to EACCES.
	ErrPermissionDenied = newSentinel(syscall.EACCES)
	// ErrNotSupported is returned by operations the core deliberately stubs,
	// such as Truncate.
	ErrNotSupported = newSentinel(syscall.ENOSYS)
	// ErrIO corresponds to EIO: the image mapper failed to open or map the
	// backing file. This is always a fatal condition.
	ErrIO = newSentinel(syscall.EIO)
)
