package image

import "github.com/apat496/imagefs/layout"

// ReleaseInode frees every data block charged to inodeNum (its direct
// block, its indirect index block if any, and every block that index
// lists), and frees the inode slot itself. Callers must only call this
// once an inode's Refs has reached zero.
func (img *Image) ReleaseInode(inodeNum int) {
	inode := img.Inodes.Get(inodeNum)

	img.FreeBlock(int(inode.Block))

	if inode.Indirect != layout.UnassignedBlock {
		for i := 0; i < layout.IndirectCount; i++ {
			slot := img.Blocks.GetIndirectSlot(int(inode.Indirect), i)
			if slot != layout.UnassignedBlock {
				img.FreeBlock(int(slot))
			}
		}
		img.FreeBlock(int(inode.Indirect))
	}

	img.FreeInode(inodeNum)
}
