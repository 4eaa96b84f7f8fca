package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apat496/imagefs/errs"
	"github.com/apat496/imagefs/internal/fstest"
	"github.com/apat496/imagefs/layout"
	"github.com/apat496/imagefs/resolver"
)

func TestSplitPath(t *testing.T) {
	cases := map[string][]string{
		"/":        {},
		"/a":       {"a"},
		"/a/b":     {"a", "b"},
		"/a/b/":    {"a", "b"},
		"/a//b":    {"a", "b"},
		"":         {},
	}
	for path, want := range cases {
		got := resolver.SplitPath(path)
		if len(want) == 0 {
			assert.Empty(t, got, "path %q", path)
		} else {
			assert.Equal(t, want, got, "path %q", path)
		}
	}
}

func TestResolveRoot(t *testing.T) {
	img := fstest.NewImage(t)
	res := resolver.New(img)

	num, err := res.Resolve("/")
	require.NoError(t, err)
	assert.Equal(t, layout.RootInodeNum, num)
}

func TestResolveMissingIsNotFound(t *testing.T) {
	img := fstest.NewImage(t)
	res := resolver.New(img)

	_, err := res.Resolve("/missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestResolveThroughNonDirectoryFails(t *testing.T) {
	img := fstest.NewImage(t)
	res := resolver.New(img)

	root := img.Inodes.Get(layout.RootInodeNum)
	fileNum, err := img.AllocateInode()
	require.NoError(t, err)
	fileBlock, err := img.AllocateBlock()
	require.NoError(t, err)
	fileInode := img.Inodes.Get(fileNum)
	fileInode.Block = int32(fileBlock)
	fileInode.Indirect = layout.UnassignedBlock
	img.Inodes.Set(fileNum, fileInode)
	img.DirAdd(int(root.Block), "f", fileNum)

	_, err = res.Resolve("/f/nested")
	assert.ErrorIs(t, err, errs.ErrNotADirectory)
}

func TestResolveParentOfNestedPath(t *testing.T) {
	img := fstest.NewImage(t)
	res := resolver.New(img)

	root := img.Inodes.Get(layout.RootInodeNum)
	subNum, err := img.AllocateInode()
	require.NoError(t, err)
	subBlock, err := img.AllocateBlock()
	require.NoError(t, err)
	subInode := img.Inodes.Get(subNum)
	subInode.IsDir = 1
	subInode.Mode = layout.ModeDir | 0755
	subInode.Block = int32(subBlock)
	subInode.Indirect = layout.UnassignedBlock
	img.Inodes.Set(subNum, subInode)
	img.DirAdd(int(root.Block), "sub", subNum)

	parent, last, err := res.ResolveParent("/sub/child")
	require.NoError(t, err)
	assert.Equal(t, subNum, parent)
	assert.Equal(t, "child", last)
}

func TestResolveParentOfRootIsInvalidArgument(t *testing.T) {
	img := fstest.NewImage(t)
	res := resolver.New(img)

	_, _, err := res.ResolveParent("/")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}
