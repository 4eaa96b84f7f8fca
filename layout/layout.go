// Package layout defines the fixed, on-disk byte format of an image: the
// size and order of its four regions, and the packed encodings of an Inode
// and a directory block's DirMap. Nothing here touches the filesystem or
// does I/O beyond slicing and encoding/binary calls against a caller-owned
// byte slice; it exists so any conforming implementation produces
// byte-identical images for the same sequence of operations.
package layout

import "encoding/binary"

const (
	// IMAGE_BYTES is the total size of a conforming image file.
	ImageBytes = 1 << 20

	// INODES is the number of inode slots the image provides.
	Inodes = 112
	// BLOCKS is the number of data blocks the image provides.
	Blocks = 254
	// BLOCK_SIZE is the size, in bytes, of one data block.
	BlockSize = 4096

	// IndirectCount is the number of block numbers an indirect index block
	// can hold: BLOCK_SIZE / 4.
	IndirectCount = BlockSize / 4

	// MapEntryLimit is the maximum number of live entries a directory map
	// can hold.
	MapEntryLimit = 44
	// NameLimit includes the NUL terminator.
	NameLimit = 89

	bitmapWordSize = 4 // one machine word, fixed at 32 bits on-image

	inodeBitmapOffset = 0
	inodeBitmapSize   = Inodes * bitmapWordSize

	blockBitmapOffset = inodeBitmapOffset + inodeBitmapSize
	blockBitmapSize   = Blocks * bitmapWordSize

	// InodeSize is the packed, on-disk size of one Inode record.
	InodeSize = 4 + 4 + 4 + 8 + 8 + 4 + 4 + 1 + 4 + 4

	inodeTableOffset = blockBitmapOffset + blockBitmapSize
	inodeTableSize   = Inodes * InodeSize

	blockRegionOffset = inodeTableOffset + inodeTableSize
	blockRegionSize   = Blocks * BlockSize

	// direntSize is the packed, on-disk size of one directory entry.
	direntSize = 4 + NameLimit
	// DirMapSize is the packed size of a directory block's header plus all
	// of its entry slots; it is always exactly BlockSize.
	DirMapSize = 4 + MapEntryLimit*direntSize

	// RootInodeNum is the inode number of the root directory. It is always
	// allocated.
	RootInodeNum = 0

	// UnassignedBlock is the sentinel stored in an inode's Indirect field,
	// and in an unused indirect-index slot, meaning "no block allocated
	// here". It intentionally does not collide with block number 0, which
	// the root directory's direct block legitimately occupies.
	UnassignedBlock = -1
)

func init() {
	if DirMapSize != BlockSize {
		panic("layout: DirMap does not fill exactly one block")
	}
	if blockRegionOffset+blockRegionSize > ImageBytes {
		panic("layout: regions overflow IMAGE_BYTES")
	}
}

// InodeBitmapRegion returns the byte offset and length of the inode bitmap.
func InodeBitmapRegion() (offset, size int) { return inodeBitmapOffset, inodeBitmapSize }

// BlockBitmapRegion returns the byte offset and length of the block bitmap.
func BlockBitmapRegion() (offset, size int) { return blockBitmapOffset, blockBitmapSize }

// InodeTableRegion returns the byte offset and length of the inode table.
func InodeTableRegion() (offset, size int) { return inodeTableOffset, inodeTableSize }

// BlockRegion returns the byte offset and length of the data block region.
func BlockRegion() (offset, size int) { return blockRegionOffset, blockRegionSize }

// Mode bits, POSIX-compatible subset. Only the bits this filesystem needs
// to distinguish are defined.
const (
	ModeDir     uint32 = 0040000
	ModeRegular uint32 = 0100000
	ModeTypeMask uint32 = 0170000
	ModePermMask uint32 = 0007777
)

// Inode is the decoded, in-memory form of one inode record. Fields are
// packed little-endian in this declaration order when written back to the
// image; see Encode/Decode.
type Inode struct {
	Mode     uint32
	UID      uint32
	GID      uint32
	Size     uint64
	MTime    int64
	Refs     uint32
	Blocks   uint32
	IsDir    uint8
	Block    int32
	Indirect int32
}

// Encode packs inode into buf, which must be at least InodeSize bytes.
func (inode *Inode) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], inode.Mode)
	binary.LittleEndian.PutUint32(buf[4:8], inode.UID)
	binary.LittleEndian.PutUint32(buf[8:12], inode.GID)
	binary.LittleEndian.PutUint64(buf[12:20], inode.Size)
	binary.LittleEndian.PutUint64(buf[20:28], uint64(inode.MTime))
	binary.LittleEndian.PutUint32(buf[28:32], inode.Refs)
	binary.LittleEndian.PutUint32(buf[32:36], inode.Blocks)
	buf[36] = inode.IsDir
	binary.LittleEndian.PutUint32(buf[37:41], uint32(inode.Block))
	binary.LittleEndian.PutUint32(buf[41:45], uint32(inode.Indirect))
}

// DecodeInode unpacks an Inode from buf, which must be at least InodeSize
// bytes.
func DecodeInode(buf []byte) Inode {
	return Inode{
		Mode:     binary.LittleEndian.Uint32(buf[0:4]),
		UID:      binary.LittleEndian.Uint32(buf[4:8]),
		GID:      binary.LittleEndian.Uint32(buf[8:12]),
		Size:     binary.LittleEndian.Uint64(buf[12:20]),
		MTime:    int64(binary.LittleEndian.Uint64(buf[20:28])),
		Refs:     binary.LittleEndian.Uint32(buf[28:32]),
		Blocks:   binary.LittleEndian.Uint32(buf[32:36]),
		IsDir:    buf[36],
		Block:    int32(binary.LittleEndian.Uint32(buf[37:41])),
		Indirect: int32(binary.LittleEndian.Uint32(buf[41:45])),
	}
}

// DirEntry is one (name, inode number) pairing inside a directory block.
type DirEntry struct {
	InodeNum int32
	Name     string
}

// DirMap is the decoded content of a directory's direct block.
type DirMap struct {
	Size    uint32
	Entries [MapEntryLimit]DirEntry
}

// Encode packs m into buf, which must be at least DirMapSize bytes.
func (m *DirMap) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], m.Size)
	for i := 0; i < MapEntryLimit; i++ {
		off := 4 + i*direntSize
		entry := m.Entries[i]
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(entry.InodeNum))
		nameBuf := buf[off+4 : off+direntSize]
		for j := range nameBuf {
			nameBuf[j] = 0
		}
		name := entry.Name
		if len(name) > NameLimit-1 {
			name = name[:NameLimit-1]
		}
		copy(nameBuf, name)
	}
}

// DecodeDirMap unpacks a DirMap from buf, which must be at least DirMapSize
// bytes.
func DecodeDirMap(buf []byte) DirMap {
	var m DirMap
	m.Size = binary.LittleEndian.Uint32(buf[0:4])
	for i := 0; i < MapEntryLimit; i++ {
		off := 4 + i*direntSize
		inodeNum := int32(binary.LittleEndian.Uint32(buf[off : off+4]))
		nameBuf := buf[off+4 : off+direntSize]
		nul := len(nameBuf)
		for j, b := range nameBuf {
			if b == 0 {
				nul = j
				break
			}
		}
		m.Entries[i] = DirEntry{InodeNum: inodeNum, Name: string(nameBuf[:nul])}
	}
	return m
}
