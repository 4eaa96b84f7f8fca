package imagefs

import (
	"os"
	"time"

	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/layout"
	"github.com/apat496/imagefs/modeconv"
)

// Stat is the attribute set returned by GetAttr, mirroring what a FUSE
// getattr call needs to fill in.
type Stat struct {
	Mode    uint32
	Nlink   uint32
	UID     uint32
	GID     uint32
	Size    int64
	Blocks  uint32
	BlkSize uint32
	MTime   time.Time
}

// FileMode converts Mode, the raw on-image mode integer, to the standard
// library's os.FileMode, the form a filesystem bridge's own attribute
// struct expects.
func (st Stat) FileMode() os.FileMode {
	return modeconv.ToFileMode(st.Mode)
}

func (fs *Filesystem) statFor(inodeNum int) Stat {
	inode := fs.img.Inodes.Get(inodeNum)
	return Stat{
		Mode:    inode.Mode,
		Nlink:   inode.Refs,
		UID:     inode.UID,
		GID:     inode.GID,
		Size:    int64(inode.Size),
		Blocks:  inode.Blocks,
		BlkSize: layout.BlockSize,
		MTime:   time.Unix(inode.MTime, 0),
	}
}

// GetAttr returns the attributes of the object at path.
func (fs *Filesystem) GetAttr(path string) (Stat, error) {
	if !fs.flags.CanRead() {
		return Stat{}, errs.ErrPermissionDenied
	}

	num, err := fs.res.Resolve(path)
	if err != nil {
		fs.log.Debug().Str("op", "getattr").Str("path", path).Err(err).Msg("resolve failed")
		return Stat{}, err
	}
	return fs.statFor(num), nil
}

// Access reports whether path resolves to an existing object. Permission
// enforcement is out of scope (spec non-goal); this only checks existence.
func (fs *Filesystem) Access(path string) error {
	_, err := fs.res.Resolve(path)
	return err
}

// Open verifies path exists. There is no per-open state to track.
func (fs *Filesystem) Open(path string) error {
	_, err := fs.res.Resolve(path)
	return err
}

// ReadDir emits "." (with the directory's own attributes) followed by
// every (name, inode number) pair in path's directory map, via filler.
func (fs *Filesystem) ReadDir(path string, filler func(name string, inodeNum int)) error {
	if !fs.flags.CanRead() {
		return errs.ErrPermissionDenied
	}

	num, err := fs.res.Resolve(path)
	if err != nil {
		return err
	}
	inode := fs.img.Inodes.Get(num)
	if inode.IsDir == 0 {
		return errs.ErrNotADirectory
	}

	filler(".", num)
	for _, entry := range fs.img.DirList(int(inode.Block)) {
		filler(entry.Name, int(entry.InodeNum))
	}
	return nil
}
