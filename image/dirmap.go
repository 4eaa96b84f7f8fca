package image

import (
	"golang.org/x/exp/slices"

	"github.com/apat496/imagefs/layout"
)

// DirGet returns the inode number named by name in the directory map held
// in block blockNum, and whether an entry matched.
func (img *Image) DirGet(blockNum int, name string) (int, bool) {
	m := img.Blocks.ReadDirMap(blockNum)
	for i := 0; i < int(m.Size); i++ {
		if m.Entries[i].Name == name {
			return int(m.Entries[i].InodeNum), true
		}
	}
	return 0, false
}

// DirAdd appends a new (name, inodeNum) entry to the directory map held in
// block blockNum. The caller must ensure the map is not already full; name
// is truncated to fit layout.NameLimit-1 bytes plus a NUL terminator.
func (img *Image) DirAdd(blockNum int, name string, inodeNum int) {
	m := img.Blocks.ReadDirMap(blockNum)
	if int(m.Size) >= layout.MapEntryLimit {
		panic("dirmap: add on a full directory")
	}
	if len(name) > layout.NameLimit-1 {
		name = name[:layout.NameLimit-1]
	}
	m.Entries[m.Size] = layout.DirEntry{InodeNum: int32(inodeNum), Name: name}
	m.Size++
	img.Blocks.WriteDirMap(blockNum, m)
}

// DirRemove locates the entry named name in the directory map held in
// block blockNum and removes it, sliding every later entry down one slot.
// If no entry matches, the map is unchanged. It reports whether an entry
// was removed.
func (img *Image) DirRemove(blockNum int, name string) bool {
	m := img.Blocks.ReadDirMap(blockNum)
	idx := -1
	for i := 0; i < int(m.Size); i++ {
		if m.Entries[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	slices.Delete(m.Entries[:m.Size], idx, idx+1)
	m.Size--
	img.Blocks.WriteDirMap(blockNum, m)
	return true
}

// DirList returns the live entries of the directory map held in block
// blockNum, in insertion order.
func (img *Image) DirList(blockNum int) []layout.DirEntry {
	m := img.Blocks.ReadDirMap(blockNum)
	out := make([]layout.DirEntry, m.Size)
	copy(out, m.Entries[:m.Size])
	return out
}
