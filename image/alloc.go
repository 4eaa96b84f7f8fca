package image

// AllocateInode scans the inode bitmap for the first free slot, zeroes
// that inode slot, marks it busy, and returns its number.
func (img *Image) AllocateInode() (int, error) {
	n, err := img.InodeBitmap.Allocate()
	if err != nil {
		return 0, err
	}
	img.Inodes.Zero(n)
	return n, nil
}

// AllocateBlock scans the block bitmap for the first free slot, zeroes
// the block's content, marks it busy, and returns its number.
func (img *Image) AllocateBlock() (int, error) {
	n, err := img.BlockBitmap.Allocate()
	if err != nil {
		return 0, err
	}
	img.Blocks.Zero(n)
	return n, nil
}

// FreeInode clears the inode bitmap slot n. It does not zero the inode's
// content; the next allocation does.
func (img *Image) FreeInode(n int) {
	img.InodeBitmap.Free(n)
}

// FreeBlock clears the block bitmap slot n. It does not zero block
// content; the next allocation does.
func (img *Image) FreeBlock(n int) {
	img.BlockBitmap.Free(n)
}
