// Package image implements the Image Mapper, the bitmap allocators, the
// block store, the inode table, and directory-map access: everything in
// the spec that operates directly on the memory-mapped image file. Path
// resolution and the public operation contract live one layer up, in the
// resolver and root packages, and are built entirely on top of this one.
package image

import (
	"os"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/hashicorp/go-multierror"

	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/layout"
)

// Image is a single open, memory-mapped filesystem image. It is a
// process-wide-mutable but explicitly owned value: callers get one from
// OpenImage and must call Close when done. There is no implicit module
// singleton, so tests can open as many independent images as they like.
type Image struct {
	file *os.File
	data mmap.MMap

	InodeBitmap *Bitmap
	BlockBitmap *Bitmap
	Inodes      *InodeTable
	Blocks      *BlockStore

	closed bool
}

// OpenImage opens path as a filesystem image, creating and zero-filling it
// to layout.ImageBytes if it does not already exist. A freshly created
// image has its root directory initialized before this returns.
func OpenImage(path string) (*Image, error) {
	fresh := false

	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if os.IsNotExist(err) {
		file, err = os.Create(path)
		if err != nil {
			return nil, errs.ErrIO.WithMessage("create %s: %s", path, err)
		}
		if err := file.Truncate(layout.ImageBytes); err != nil {
			file.Close()
			return nil, errs.ErrIO.WithMessage("extend %s: %s", path, err)
		}
		fresh = true
	} else if err != nil {
		return nil, errs.ErrIO.WithMessage("open %s: %s", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errs.ErrIO.WithMessage("stat %s: %s", path, err)
	}
	if info.Size() < layout.ImageBytes {
		if err := file.Truncate(layout.ImageBytes); err != nil {
			file.Close()
			return nil, errs.ErrIO.WithMessage("extend %s: %s", path, err)
		}
	}

	data, err := mmap.MapRegion(file, layout.ImageBytes, mmap.RDWR, 0, 0)
	if err != nil {
		file.Close()
		return nil, errs.ErrIO.WithMessage("mmap %s: %s", path, err)
	}

	img := &Image{file: file, data: data}
	img.wireViews()

	if fresh {
		if err := img.initRoot(); err != nil {
			img.Close()
			return nil, err
		}
	}

	return img, nil
}

func (img *Image) wireViews() {
	ibOff, ibSize := layout.InodeBitmapRegion()
	bbOff, bbSize := layout.BlockBitmapRegion()
	itOff, itSize := layout.InodeTableRegion()
	blOff, blSize := layout.BlockRegion()

	img.InodeBitmap = newBitmap(img.data[ibOff : ibOff+ibSize])
	img.BlockBitmap = newBitmap(img.data[bbOff : bbOff+bbSize])
	img.Inodes = newInodeTable(img.data[itOff : itOff+itSize])
	img.Blocks = newBlockStore(img.data[blOff : blOff+blSize])
}

// initRoot allocates and populates inode 0 as the root directory, per
// spec.md 4.1: mode DIR|0755, refs=2, owner = current process uid/gid, a
// freshly allocated direct block holding a zeroed DirMap, no indirect
// block.
func (img *Image) initRoot() error {
	num, err := img.InodeBitmap.Allocate()
	if err != nil || num != layout.RootInodeNum {
		return errs.ErrIO.WithMessage("failed to allocate root inode")
	}

	blockNum, err := img.BlockBitmap.Allocate()
	if err != nil {
		return errs.ErrIO.WithMessage("failed to allocate root's direct block")
	}

	root := layout.Inode{
		Mode:     layout.ModeDir | 0755,
		UID:      uint32(os.Getuid()),
		GID:      uint32(os.Getgid()),
		Size:     4,
		MTime:    time.Now().Unix(),
		Refs:     2,
		Blocks:   1,
		IsDir:    1,
		Block:    int32(blockNum),
		Indirect: layout.UnassignedBlock,
	}
	img.Inodes.Set(layout.RootInodeNum, root)

	var dirMap layout.DirMap
	img.Blocks.WriteDirMap(int(blockNum), dirMap)
	return nil
}

// Close unmaps the image and closes its backing file descriptor. It is
// always safe to call, and a second call is a no-op.
func (img *Image) Close() error {
	if img.closed {
		return nil
	}
	img.closed = true

	var result *multierror.Error
	if err := img.data.Flush(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := img.data.Unmap(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := img.file.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
