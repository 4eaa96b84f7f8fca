// Package resolver implements the Path Resolver: splitting an absolute
// path into components and walking directory maps to locate or place an
// entry. It reports an absent component as errs.ErrNotFound and a non-directory
// on the walk as errs.ErrNotADirectory; what an operation does with those is
// up to the caller.
package resolver

import (
	"strings"

	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/image"
	"github.com/apat496/imagefs/layout"
)

// SplitPath splits an absolute path into its non-empty components. "/"
// splits to an empty slice, meaning "already at root"; the resolver never
// loops over it.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolver walks an Image's directory maps on behalf of the operation
// layer.
type Resolver struct {
	img *image.Image
}

// New returns a Resolver over img.
func New(img *image.Image) *Resolver {
	return &Resolver{img: img}
}

// Resolve walks path from the root and returns the inode number it names.
// It returns errs.ErrNotFound if any component is absent and
// errs.ErrNotADirectory if a non-leaf component names something other
// than a directory.
func (r *Resolver) Resolve(path string) (int, error) {
	components := SplitPath(path)
	cur := layout.RootInodeNum
	if len(components) == 0 {
		return cur, nil
	}

	for _, comp := range components {
		inode := r.img.Inodes.Get(cur)
		if inode.IsDir == 0 {
			return 0, errs.ErrNotADirectory
		}
		next, ok := r.img.DirGet(int(inode.Block), comp)
		if !ok {
			return 0, errs.ErrNotFound
		}
		cur = next
	}
	return cur, nil
}

// ResolveParent walks every component of path except the last and returns
// the inode number of the directory that should contain it, along with
// the last component itself. The parent must exist and be a directory;
// ResolveParent fails the same way Resolve does otherwise. Calling it on
// "/" is a programmer error: the root has no parent.
func (r *Resolver) ResolveParent(path string) (parent int, last string, err error) {
	components := SplitPath(path)
	if len(components) == 0 {
		return 0, "", errs.ErrInvalidArgument.WithMessage("%q has no parent", path)
	}

	cur := layout.RootInodeNum
	for _, comp := range components[:len(components)-1] {
		inode := r.img.Inodes.Get(cur)
		if inode.IsDir == 0 {
			return 0, "", errs.ErrNotADirectory
		}
		next, ok := r.img.DirGet(int(inode.Block), comp)
		if !ok {
			return 0, "", errs.ErrNotFound
		}
		cur = next
	}

	inode := r.img.Inodes.Get(cur)
	if inode.IsDir == 0 {
		return 0, "", errs.ErrNotADirectory
	}
	return cur, components[len(components)-1], nil
}
