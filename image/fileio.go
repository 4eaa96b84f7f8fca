package image

import (
	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/layout"
)

// DirectCap is the number of bytes an inode can hold in its direct block
// alone.
const DirectCap = layout.BlockSize

// IndirectCap is the number of bytes an inode can hold across every
// indirect-listed block.
const IndirectCap = layout.IndirectCount * layout.BlockSize

// MaxFileBytes is the largest size any one inode's content can reach.
const MaxFileBytes = DirectCap + IndirectCap

// ReadAll returns the full logical content of inodeNum: the direct block,
// followed by whichever indirect-listed blocks are needed to reach its
// recorded size.
func (img *Image) ReadAll(inodeNum int) []byte {
	inode := img.Inodes.Get(inodeNum)
	size := int64(inode.Size)
	out := make([]byte, size)
	if size == 0 {
		return out
	}

	if size <= layout.BlockSize {
		copy(out, img.Blocks.BlockPtr(int(inode.Block))[:size])
		return out
	}

	copy(out[:layout.BlockSize], img.Blocks.BlockPtr(int(inode.Block)))
	if inode.Indirect == layout.UnassignedBlock {
		return out
	}
	remaining := size - layout.BlockSize
	pos := int64(layout.BlockSize)

	for i := 0; i < layout.IndirectCount && remaining > 0; i++ {
		blockNum := img.Blocks.GetIndirectSlot(int(inode.Indirect), i)
		n := remaining
		if n > layout.BlockSize {
			n = layout.BlockSize
		}
		if blockNum != layout.UnassignedBlock {
			copy(out[pos:pos+n], img.Blocks.BlockPtr(int(blockNum))[:n])
		}
		pos += n
		remaining -= n
	}
	return out
}

// clearIndirectSlots marks every slot of a freshly allocated indirect
// index block as unassigned. AllocateBlock zero-fills new blocks, but a
// zero slot value means "block 0", not "empty" (see layout.UnassignedBlock);
// a new index block must be explicitly initialized to the sentinel.
func (img *Image) clearIndirectSlots(indirectBlock int) {
	for i := 0; i < layout.IndirectCount; i++ {
		img.Blocks.SetIndirectSlot(indirectBlock, i, layout.UnassignedBlock)
	}
}

// Write stores buf at offset in inodeNum's content, growing its recorded
// size to at least offset+len(buf), allocating the indirect index block
// and any data blocks it needs along the way. It returns the number of
// bytes written.
func (img *Image) Write(inodeNum int, buf []byte, offset int64) (int, error) {
	end := offset + int64(len(buf))
	if end > MaxFileBytes {
		return 0, errs.ErrFileTooLarge
	}

	inode := img.Inodes.Get(inodeNum)

	pos := offset
	for pos < end {
		blockIndex := pos / layout.BlockSize
		blockOffset := pos % layout.BlockSize
		blockEnd := (blockIndex + 1) * layout.BlockSize
		if blockEnd > end {
			blockEnd = end
		}
		n := blockEnd - pos

		blockNum, err := img.blockForWrite(&inode, int(blockIndex))
		if err != nil {
			return int(pos - offset), err
		}

		dst := img.Blocks.BlockPtr(blockNum)
		src := buf[pos-offset : pos-offset+n]
		copy(dst[blockOffset:blockOffset+n], src)

		pos = blockEnd
	}

	if uint64(end) > inode.Size {
		inode.Size = uint64(end)
	}
	img.Inodes.Set(inodeNum, inode)
	return len(buf), nil
}

// blockForWrite resolves blockIndex (0 = direct, 1..IndirectCount = an
// indirect-listed slot) to a concrete block number, allocating the
// indirect index block and/or the target data block on first touch.
func (img *Image) blockForWrite(inode *layout.Inode, blockIndex int) (int, error) {
	if blockIndex == 0 {
		return int(inode.Block), nil
	}

	if inode.Indirect == layout.UnassignedBlock {
		indirectBlock, err := img.AllocateBlock()
		if err != nil {
			return 0, err
		}
		img.clearIndirectSlots(indirectBlock)
		inode.Indirect = int32(indirectBlock)
	}

	slot := blockIndex - 1
	blockNum := img.Blocks.GetIndirectSlot(int(inode.Indirect), slot)
	if blockNum == layout.UnassignedBlock {
		newBlock, err := img.AllocateBlock()
		if err != nil {
			return 0, err
		}
		img.Blocks.SetIndirectSlot(int(inode.Indirect), slot, int32(newBlock))
		inode.Blocks++
		blockNum = int32(newBlock)
	}
	return int(blockNum), nil
}
