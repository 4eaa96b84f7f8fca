package imagefs

import "os"

// MountFlags is a bitmask of mount-time permissions gating the operation
// layer, mirroring the teacher's disko.MountFlags.
type MountFlags uint8

const (
	// MountFlagsAllowRead permits Read, GetAttr, ReadDir. Access and Open
	// are not gated by any flag.
	MountFlagsAllowRead MountFlags = 1 << iota
	// MountFlagsAllowWrite permits modifying an existing object's content
	// or timestamp (Write, Utimens), but not creating or deleting one.
	MountFlagsAllowWrite
	// MountFlagsAllowInsert permits creating new objects (Mknod, Mkdir,
	// Link).
	MountFlagsAllowInsert
	// MountFlagsAllowDelete permits removing objects (Unlink, Rmdir), and
	// the unlink half of Rename.
	MountFlagsAllowDelete
	// MountFlagsAllowAdminister permits changing permission bits (Chmod).
	MountFlagsAllowAdminister
)

// MountFlagsAllowAll grants every permission; it is the default an
// imagefs.Open call gets when no WithMountFlags option is supplied.
const MountFlagsAllowAll = MountFlagsAllowRead |
	MountFlagsAllowWrite |
	MountFlagsAllowInsert |
	MountFlagsAllowDelete |
	MountFlagsAllowAdminister

func (f MountFlags) CanRead() bool       { return f&MountFlagsAllowRead != 0 }
func (f MountFlags) CanWrite() bool      { return f&MountFlagsAllowWrite != 0 }
func (f MountFlags) CanInsert() bool     { return f&MountFlagsAllowInsert != 0 }
func (f MountFlags) CanDelete() bool     { return f&MountFlagsAllowDelete != 0 }
func (f MountFlags) CanAdminister() bool { return f&MountFlagsAllowAdminister != 0 }

// MountOptions configures an Open call: where the image lives, whether it
// may be created if absent, and what MountFlags gate the operation layer.
// Open itself takes these as functional Options rather than a single
// struct, but MountOptions is how a bridge's own flag-parsing layer
// should assemble them before calling in.
type MountOptions struct {
	ImagePath       string
	CreateIfMissing bool
	Flags           MountFlags
}

// WithMountFlags restricts the operations a Filesystem will permit. The
// default, with no option supplied, is MountFlagsAllowAll.
func WithMountFlags(flags MountFlags) Option {
	return func(fs *Filesystem) { fs.flags = flags }
}

// WithCreateIfMissing controls whether Open may create path if it doesn't
// already exist. The default is true, matching the teacher's mount
// behavior of formatting on first use.
func WithCreateIfMissing(create bool) Option {
	return func(fs *Filesystem) { fs.createIfMissing = create }
}

// imageExists reports whether anything already exists at path, without
// creating anything. It does not check that it is a regular file.
func imageExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
