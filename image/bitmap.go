package image

import (
	"encoding/binary"

	"github.com/apat496/imagefs/errs"
)

// Bitmap is a scan-for-free allocator over a word-per-slot occupancy
// region: nonzero means the slot is busy. It is grounded on the shape of
// a classic scan allocator (allocate lowest free index, first-fit) but
// keeps the word-per-slot on-disk encoding spec.md requires for image
// interchangeability, rather than a bit-packed in-memory bitmap.
type Bitmap struct {
	words []byte // len(words) == 4*slotCount, a view into the mapped image
}

func newBitmap(words []byte) *Bitmap {
	return &Bitmap{words: words}
}

// Count returns the number of slots this bitmap tracks.
func (b *Bitmap) Count() int {
	return len(b.words) / 4
}

func (b *Bitmap) get(n int) uint32 {
	return binary.LittleEndian.Uint32(b.words[n*4 : n*4+4])
}

func (b *Bitmap) set(n int, v uint32) {
	binary.LittleEndian.PutUint32(b.words[n*4:n*4+4], v)
}

// IsBusy reports whether slot n is currently allocated.
func (b *Bitmap) IsBusy(n int) bool {
	return b.get(n) != 0
}

// Allocate scans for the lowest-numbered free slot, marks it busy, and
// returns its index. Tie-break is always the lowest index, as required by
// spec.md 4.2 so allocation is deterministic across implementations.
func (b *Bitmap) Allocate() (int, error) {
	for i := 0; i < b.Count(); i++ {
		if b.get(i) == 0 {
			b.set(i, 1)
			return i, nil
		}
	}
	return 0, errs.ErrNoSpace
}

// Free clears slot n. It does not zero any associated content; the next
// allocation of that slot is responsible for that.
func (b *Bitmap) Free(n int) {
	b.set(n, 0)
}
