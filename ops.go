package imagefs

import (
	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/layout"
	"github.com/apat496/imagefs/modeconv"
	"github.com/apat496/imagefs/resolver"
)

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Mknod creates a non-directory or directory object at path, according to
// mode's type bits. It fails with errs.ErrExists if an entry already
// names path, and errs.ErrNotADirectory if path's parent isn't one.
func (fs *Filesystem) Mknod(path string, mode uint32) error {
	if !fs.flags.CanInsert() {
		return errs.ErrPermissionDenied
	}

	parentNum, name, err := fs.res.ResolveParent(path)
	if err != nil {
		return err
	}
	parentInode := fs.img.Inodes.Get(parentNum)
	if parentInode.IsDir == 0 {
		return errs.ErrNotADirectory
	}
	if _, exists := fs.img.DirGet(int(parentInode.Block), name); exists {
		return errs.ErrExists
	}

	isDir := mode&layout.ModeTypeMask == layout.ModeDir
	mode = modeconv.WithDirectoryExecuteBits(mode)

	num, err := fs.img.AllocateInode()
	if err != nil {
		fs.log.Warn().Str("op", "mknod").Str("path", path).Err(err).Msg("inode allocator exhausted")
		return err
	}
	blockNum, err := fs.img.AllocateBlock()
	if err != nil {
		fs.img.FreeInode(num)
		fs.log.Warn().Str("op", "mknod").Str("path", path).Err(err).Msg("block allocator exhausted")
		return err
	}

	refs := uint32(1)
	size := uint64(0)
	if isDir {
		refs = 2
		size = 4
		var empty layout.DirMap
		fs.img.Blocks.WriteDirMap(blockNum, empty)
	}

	newInode := layout.Inode{
		Mode:     mode,
		UID:      fs.uid,
		GID:      fs.gid,
		Size:     size,
		MTime:    fs.now().Unix(),
		Refs:     refs,
		Blocks:   1,
		IsDir:    boolToUint8(isDir),
		Block:    int32(blockNum),
		Indirect: layout.UnassignedBlock,
	}
	fs.img.Inodes.Set(num, newInode)

	fs.img.DirAdd(int(parentInode.Block), name, num)
	parentInode.Refs++
	fs.img.Inodes.Set(parentNum, parentInode)

	fs.log.Debug().Str("op", "mknod").Str("path", path).Int("inode", num).Msg("created")
	return nil
}

// Mkdir creates a directory at path; it is equivalent to
// Mknod(path, layout.ModeDir|mode).
func (fs *Filesystem) Mkdir(path string, mode uint32) error {
	return fs.Mknod(path, layout.ModeDir|mode)
}

// unlinkCommon implements both Unlink and Rmdir. requireDir selects which
// one: true rejects non-directory targets (ENOTDIR) and non-empty
// directories (ENOTEMPTY); false rejects directory targets (EISDIR).
func (fs *Filesystem) unlinkCommon(path string, requireDir bool) error {
	if !fs.flags.CanDelete() {
		return errs.ErrPermissionDenied
	}

	components := resolver.SplitPath(path)
	if len(components) == 0 {
		return errs.ErrInvalidArgument.WithMessage("cannot remove root")
	}
	last := components[len(components)-1]
	if last == "." {
		return errs.ErrInvalidArgument
	}
	if last == ".." {
		return errs.ErrDirectoryNotEmpty
	}

	parentNum, name, err := fs.res.ResolveParent(path)
	if err != nil {
		return err
	}
	parentInode := fs.img.Inodes.Get(parentNum)

	targetNum, ok := fs.img.DirGet(int(parentInode.Block), name)
	if !ok {
		return errs.ErrNotFound
	}
	targetInode := fs.img.Inodes.Get(targetNum)
	isDir := targetInode.IsDir != 0

	if isDir && !requireDir {
		return errs.ErrIsADirectory
	}
	if !isDir && requireDir {
		return errs.ErrNotADirectory
	}
	if requireDir {
		dirMap := fs.img.Blocks.ReadDirMap(int(targetInode.Block))
		if dirMap.Size > 0 {
			return errs.ErrDirectoryNotEmpty
		}
	}

	fs.img.DirRemove(int(parentInode.Block), name)
	parentInode.Refs--
	fs.img.Inodes.Set(parentNum, parentInode)

	targetInode.Refs--
	if targetInode.Refs == 0 {
		fs.img.ReleaseInode(targetNum)
	} else {
		fs.img.Inodes.Set(targetNum, targetInode)
	}

	fs.log.Debug().Str("op", "unlink").Str("path", path).Msg("removed")
	return nil
}

// Unlink removes a non-directory entry at path.
func (fs *Filesystem) Unlink(path string) error {
	return fs.unlinkCommon(path, false)
}

// Rmdir removes an empty directory at path.
func (fs *Filesystem) Rmdir(path string) error {
	return fs.unlinkCommon(path, true)
}

// Link adds a new directory entry to at naming the same inode as from.
// It fails with errs.ErrExists if to already names something.
func (fs *Filesystem) Link(from, to string) error {
	if !fs.flags.CanInsert() {
		return errs.ErrPermissionDenied
	}

	targetNum, err := fs.res.Resolve(from)
	if err != nil {
		return err
	}

	parentNum, name, err := fs.res.ResolveParent(to)
	if err != nil {
		return err
	}
	parentInode := fs.img.Inodes.Get(parentNum)
	if parentInode.IsDir == 0 {
		return errs.ErrNotADirectory
	}
	if _, exists := fs.img.DirGet(int(parentInode.Block), name); exists {
		return errs.ErrExists
	}

	fs.img.DirAdd(int(parentInode.Block), name, targetNum)

	targetInode := fs.img.Inodes.Get(targetNum)
	targetInode.Refs++
	fs.img.Inodes.Set(targetNum, targetInode)

	fs.log.Debug().Str("op", "link").Str("from", from).Str("to", to).Msg("linked")
	return nil
}

// Rename implements rename as link-then-unlink: if Link fails, from is
// left untouched and the filesystem is unchanged.
func (fs *Filesystem) Rename(from, to string) error {
	if err := fs.Link(from, to); err != nil {
		return err
	}
	return fs.unlinkCommon(from, false)
}

// Chmod updates the permission bits of path's object, leaving its type
// bits untouched. A second identical Chmod call is a no-op.
func (fs *Filesystem) Chmod(path string, mode uint32) error {
	if !fs.flags.CanAdminister() {
		return errs.ErrPermissionDenied
	}

	num, err := fs.res.Resolve(path)
	if err != nil {
		return err
	}
	inode := fs.img.Inodes.Get(num)
	inode.Mode = (inode.Mode &^ layout.ModePermMask) | (mode & layout.ModePermMask)
	fs.img.Inodes.Set(num, inode)
	return nil
}

// Utimens sets path's modification time. A zero-valued mtime is rejected
// with errs.ErrPermissionDenied, per the operation contract.
func (fs *Filesystem) Utimens(path string, mtime int64) error {
	if !fs.flags.CanWrite() {
		return errs.ErrPermissionDenied
	}
	if mtime == 0 {
		return errs.ErrPermissionDenied
	}
	num, err := fs.res.Resolve(path)
	if err != nil {
		return err
	}
	inode := fs.img.Inodes.Get(num)
	inode.MTime = mtime
	fs.img.Inodes.Set(num, inode)
	return nil
}

// Read returns up to n bytes of path's content starting at offset. An
// offset past the end of the content yields zero bytes, not an error.
func (fs *Filesystem) Read(path string, offset int64, n int) ([]byte, error) {
	if !fs.flags.CanRead() {
		return nil, errs.ErrPermissionDenied
	}

	num, err := fs.res.Resolve(path)
	if err != nil {
		return nil, err
	}

	content := fs.img.ReadAll(num)
	if offset >= int64(len(content)) {
		return []byte{}, nil
	}
	end := offset + int64(n)
	if end > int64(len(content)) {
		end = int64(len(content))
	}
	return content[offset:end], nil
}

// Write stores buf at offset in path's content, growing it as needed, and
// returns the number of bytes written.
func (fs *Filesystem) Write(path string, buf []byte, offset int64) (int, error) {
	if !fs.flags.CanWrite() {
		return 0, errs.ErrPermissionDenied
	}

	num, err := fs.res.Resolve(path)
	if err != nil {
		return 0, err
	}

	n, err := fs.img.Write(num, buf, offset)
	if err != nil {
		fs.log.Warn().Str("op", "write").Str("path", path).Err(err).Msg("write failed")
		return n, err
	}

	inode := fs.img.Inodes.Get(num)
	inode.MTime = fs.now().Unix()
	fs.img.Inodes.Set(num, inode)
	return n, nil
}

// Truncate is a stub; spec.md 6 says callers should not depend on it.
func (fs *Filesystem) Truncate(path string, size int64) error {
	return errs.ErrNotSupported
}
