package image

import (
	"encoding/binary"

	"github.com/apat496/imagefs/layout"
)

// BlockStore translates block numbers into views onto the data block
// region. It gives no bounds guarantees beyond n < layout.Blocks; callers
// are responsible for the semantic meaning of a block (directory map,
// file data, or indirect index).
type BlockStore struct {
	data []byte // len(data) == layout.Blocks*layout.BlockSize
}

func newBlockStore(data []byte) *BlockStore {
	return &BlockStore{data: data}
}

// BlockPtr returns a view onto byte 0 of block n. Writes through the
// returned slice are writes to the image.
func (s *BlockStore) BlockPtr(n int) []byte {
	off := n * layout.BlockSize
	return s.data[off : off+layout.BlockSize]
}

// Zero overwrites block n with null bytes. Newly allocated blocks must
// always pass through this, so holes read back as zero.
func (s *BlockStore) Zero(n int) {
	blk := s.BlockPtr(n)
	for i := range blk {
		blk[i] = 0
	}
}

// ReadDirMap decodes block n as a directory map.
func (s *BlockStore) ReadDirMap(n int) layout.DirMap {
	return layout.DecodeDirMap(s.BlockPtr(n))
}

// WriteDirMap encodes m into block n.
func (s *BlockStore) WriteDirMap(n int, m layout.DirMap) {
	m.Encode(s.BlockPtr(n))
}

// ReadIndirect decodes block n as an indirect index: IndirectCount block
// numbers, little-endian, UnassignedBlock (-1) meaning "no block here".
func (s *BlockStore) ReadIndirect(n int) []int32 {
	buf := s.BlockPtr(n)
	out := make([]int32, layout.IndirectCount)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return out
}

// SetIndirectSlot writes a single block number into slot i of the
// indirect index block n.
func (s *BlockStore) SetIndirectSlot(n, i int, blockNum int32) {
	buf := s.BlockPtr(n)
	binary.LittleEndian.PutUint32(buf[i*4:i*4+4], uint32(blockNum))
}

// GetIndirectSlot reads a single slot of the indirect index block n.
func (s *BlockStore) GetIndirectSlot(n, i int) int32 {
	buf := s.BlockPtr(n)
	return int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
}
