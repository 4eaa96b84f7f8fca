package imagefs

// OperationContract is the operation-level contract a host kernel bridge invokes;
// *Filesystem satisfies it. It is declared separately so a bridge adapter
// (out of scope for this module, per spec.md 1) can depend on the
// interface rather than the concrete type.
type OperationContract interface {
	Access(path string) error
	GetAttr(path string) (Stat, error)
	ReadDir(path string, filler func(name string, inodeNum int)) error
	Mknod(path string, mode uint32) error
	Mkdir(path string, mode uint32) error
	Unlink(path string) error
	Rmdir(path string) error
	Rename(from, to string) error
	Chmod(path string, mode uint32) error
	Open(path string) error
	Read(path string, offset int64, n int) ([]byte, error)
	Write(path string, buf []byte, offset int64) (int, error)
	Utimens(path string, mtime int64) error
	Link(from, to string) error
	Truncate(path string, size int64) error
}

var _ OperationContract = (*Filesystem)(nil)
