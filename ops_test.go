package imagefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/internal/fstest"
	"github.com/apat496/imagefs/layout"
)

// A fresh image's root is a directory with nlink 2 and no entries.
func TestFreshImageRootAttrs(t *testing.T) {
	fs := fstest.NewFilesystem(t)

	st, err := fs.GetAttr("/")
	require.NoError(t, err)
	assert.Equal(t, layout.ModeDir|0755, st.Mode)
	assert.EqualValues(t, 2, st.Nlink)
}

// mknod followed by readdir surfaces the new entry, and the root's nlink
// goes from 2 to 3: every new child, file or directory, adds one.
func TestMknodThenReadDir(t *testing.T) {
	fs := fstest.NewFilesystem(t)

	require.NoError(t, fs.Mknod("/a", layout.ModeRegular|0644))

	names := map[string]bool{}
	err := fs.ReadDir("/", func(name string, inodeNum int) { names[name] = true })
	require.NoError(t, err)
	assert.True(t, names["."])
	assert.True(t, names["a"])

	st, err := fs.GetAttr("/")
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.Nlink)
}

// mknod on an existing name fails with EEXIST.
func TestMknodDuplicateFails(t *testing.T) {
	fs := fstest.NewFilesystem(t)

	require.NoError(t, fs.Mknod("/a", layout.ModeRegular|0644))
	err := fs.Mknod("/a", layout.ModeRegular|0644)
	assert.ErrorIs(t, err, errs.ErrExists)
}

// A write followed by a read returns exactly the written bytes, and
// GetAttr reports the matching size.
func TestWriteThenReadRoundTrip(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))

	n, err := fs.Write("/f", []byte("hello"), 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := fs.Read("/f", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	st, err := fs.GetAttr("/f")
	require.NoError(t, err)
	assert.EqualValues(t, 5, st.Size)
}

// A write spanning the indirect block allocates at least two blocks and
// assigns the indirect pointer.
func TestWriteSpanningIndirectBlock(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/big", layout.ModeRegular|0644))

	buf := make([]byte, 8192)
	for i := range buf {
		buf[i] = byte(i)
	}
	_, err := fs.Write("/big", buf, 0)
	require.NoError(t, err)

	got, err := fs.Read("/big", 0, len(buf))
	require.NoError(t, err)
	assert.Equal(t, buf, got)

	st, err := fs.GetAttr("/big")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st.Blocks, uint32(2))

	num, err := fs.res.Resolve("/big")
	require.NoError(t, err)
	inode := fs.Image().Inodes.Get(num)
	assert.NotEqual(t, layout.UnassignedBlock, inode.Indirect)
}

// mknod, link, unlink original name: reading the new name still works and
// the surviving link has nlink 1.
func TestLinkThenUnlinkOriginal(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/orig", layout.ModeRegular|0644))
	_, err := fs.Write("/orig", []byte("payload"), 0)
	require.NoError(t, err)

	require.NoError(t, fs.Link("/orig", "/alias"))
	require.NoError(t, fs.Unlink("/orig"))

	got, err := fs.Read("/alias", 0, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	st, err := fs.GetAttr("/alias")
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.Nlink)

	_, err = fs.GetAttr("/orig")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRmdirRejectsNonEmptyDirectory(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mkdir("/d", 0755))
	require.NoError(t, fs.Mknod("/d/child", layout.ModeRegular|0644))

	err := fs.Rmdir("/d")
	assert.ErrorIs(t, err, errs.ErrDirectoryNotEmpty)
}

func TestRmdirRejectsNonDirectory(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))

	err := fs.Rmdir("/f")
	assert.ErrorIs(t, err, errs.ErrNotADirectory)
}

func TestUnlinkRejectsDirectory(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mkdir("/d", 0755))

	err := fs.Unlink("/d")
	assert.ErrorIs(t, err, errs.ErrIsADirectory)
}

// Unlinking a file frees its inode and block slots back to the allocator.
func TestUnlinkFreesInodeAndBlock(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))

	num, err := fs.res.Resolve("/f")
	require.NoError(t, err)
	inode := fs.Image().Inodes.Get(num)
	blockNum := int(inode.Block)

	require.NoError(t, fs.Unlink("/f"))

	assert.False(t, fs.Image().InodeBitmap.IsBusy(num))
	assert.False(t, fs.Image().BlockBitmap.IsBusy(blockNum))
}

func TestChmodIsIdempotent(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))

	require.NoError(t, fs.Chmod("/f", 0600))
	first, err := fs.GetAttr("/f")
	require.NoError(t, err)

	require.NoError(t, fs.Chmod("/f", 0600))
	second, err := fs.GetAttr("/f")
	require.NoError(t, err)

	assert.Equal(t, first.Mode, second.Mode)
}

func TestUtimensRejectsZero(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))

	err := fs.Utimens("/f", 0)
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestReadPastEndOfFileReturnsEmpty(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))
	_, err := fs.Write("/f", []byte("abc"), 0)
	require.NoError(t, err)

	got, err := fs.Read("/f", 100, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTruncateIsNotSupported(t *testing.T) {
	fs := fstest.NewFilesystem(t)
	require.NoError(t, fs.Mknod("/f", layout.ModeRegular|0644))

	err := fs.Truncate("/f", 0)
	assert.ErrorIs(t, err, errs.ErrNotSupported)
}
