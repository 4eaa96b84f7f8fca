// Package imagefs implements the Operation Layer: the public,
// POSIX-shaped contract a host filesystem bridge invokes. It is built
// entirely on top of the image and resolver packages and holds no layout
// knowledge of its own.
package imagefs

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/image"
	"github.com/apat496/imagefs/resolver"
)

// Filesystem is one open, mounted image. It is not safe for concurrent
// use from multiple goroutines; the host bridge that embeds it is assumed
// to be single-threaded per mount, per spec.
type Filesystem struct {
	img *image.Image
	res *resolver.Resolver
	log zerolog.Logger

	uid, gid uint32

	flags           MountFlags
	createIfMissing bool
}

// Option configures a Filesystem at construction time.
type Option func(*Filesystem)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(fs *Filesystem) { fs.log = log }
}

// Open opens the image at path and returns a Filesystem ready to serve
// operations gated by the configured MountFlags. By default the image is
// created if missing and every permission is granted; use
// WithCreateIfMissing and WithMountFlags to change either.
func Open(path string, opts ...Option) (*Filesystem, error) {
	fs := &Filesystem{
		log:             zerolog.Nop(),
		uid:             uint32(os.Getuid()),
		gid:             uint32(os.Getgid()),
		flags:           MountFlagsAllowAll,
		createIfMissing: true,
	}
	for _, opt := range opts {
		opt(fs)
	}

	if !fs.createIfMissing && !imageExists(path) {
		return nil, errs.ErrNotFound.WithMessage("image %s does not exist", path)
	}

	img, err := image.OpenImage(path)
	if err != nil {
		return nil, err
	}
	fs.img = img
	fs.res = resolver.New(img)
	return fs, nil
}

// Close unmaps the backing image and releases its file descriptor.
func (fs *Filesystem) Close() error {
	return fs.img.Close()
}

// Image exposes the underlying mapped image for diagnostic tooling (see
// cmd/diskofs's info command). Operation-layer callers should never need
// it.
func (fs *Filesystem) Image() *image.Image {
	return fs.img
}

func (fs *Filesystem) now() time.Time {
	return time.Now()
}
