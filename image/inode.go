package image

import "github.com/apat496/imagefs/layout"

// InodeTable is a typed view over the inode region of the image. Callers
// identify inodes by stable number rather than by pointer: spec.md 9 flags
// the source's pointer-arithmetic inode_num() as a design smell, and this
// table never hands out anything but numbers and decoded values.
type InodeTable struct {
	region []byte // len == layout.Inodes*layout.InodeSize
}

func newInodeTable(region []byte) *InodeTable {
	return &InodeTable{region: region}
}

func (t *InodeTable) slotOffset(n int) int {
	return n * layout.InodeSize
}

// Get decodes inode n.
func (t *InodeTable) Get(n int) layout.Inode {
	off := t.slotOffset(n)
	return layout.DecodeInode(t.region[off : off+layout.InodeSize])
}

// Set encodes inode into slot n.
func (t *InodeTable) Set(n int, inode layout.Inode) {
	off := t.slotOffset(n)
	inode.Encode(t.region[off : off+layout.InodeSize])
}

// Zero clears slot n to all-zero bytes, as required before an allocator
// hands it out.
func (t *InodeTable) Zero(n int) {
	off := t.slotOffset(n)
	slot := t.region[off : off+layout.InodeSize]
	for i := range slot {
		slot[i] = 0
	}
}
