package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirToTemp runs the test inside a scratch directory so saveDbs/loadDbs's
// temp-file-then-rename dance never touches the real working tree.
func chdirToTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func buildTestDbs() []*GodisDB {
	db0 := &GodisDB{id: 0, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})}
	db0.data.Add(CreateStringObject("str"), CreateStringObject("value"))

	l := CreateListObject()
	l.List().Append(CreateStringObject("x"))
	l.List().Append(CreateStringObject("y"))
	db0.data.Add(CreateStringObject("list"), l)

	s := CreateSetObject()
	s.Dict().Add(CreateStringObject("m1"), nil)
	s.Dict().Add(CreateStringObject("m2"), nil)
	db0.data.Add(CreateStringObject("set"), s)

	db1 := &GodisDB{id: 1, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})}
	db1.data.Add(CreateStringObject("otherdb"), CreateStringObject("1"))

	return []*GodisDB{db0, db1}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	chdirToTemp(t)
	newTestServer(t)

	dbs := buildTestDbs()
	require.NoError(t, saveDbs("dump.rdb", dbs))

	loaded := []*GodisDB{
		{id: 0, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})},
		{id: 1, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})},
	}
	require.NoError(t, loadDbs("dump.rdb", loaded))

	assert.Equal(t, "value", loaded[0].data.Get(CreateStringObject("str")).StrVal())
	assert.Equal(t, "1", loaded[1].data.Get(CreateStringObject("otherdb")).StrVal())

	l := loaded[0].data.Get(CreateStringObject("list"))
	require.NotNil(t, l)
	require.Equal(t, int64(2), l.List().Length())
	assert.Equal(t, "x", l.List().Index(0).Val.StrVal())
	assert.Equal(t, "y", l.List().Index(1).Val.StrVal())

	s := loaded[0].data.Get(CreateStringObject("set"))
	require.NotNil(t, s)
	assert.Equal(t, int64(2), s.Dict().Size())
	assert.NotNil(t, s.Dict().Find(CreateStringObject("m1")))
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	chdirToTemp(t)
	dbs := []*GodisDB{{id: 0, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})}}
	assert.NoError(t, loadDbs("does-not-exist.rdb", dbs))
}

func TestCloneValueDeepCopiesListContents(t *testing.T) {
	orig := CreateListObject()
	orig.List().Append(CreateStringObject("a"))

	clone, err := cloneValue(orig)
	require.NoError(t, err)

	// Mutating the original after cloning must not affect the clone: this
	// is the entire point of cloneValue existing instead of a bare
	// copier.Copy, which would alias the same *List.
	orig.List().Append(CreateStringObject("b"))

	assert.Equal(t, int64(1), clone.List().Length())
	assert.Equal(t, int64(2), orig.List().Length())
}

func TestSnapshotCopyIsIndependentOfLiveDbs(t *testing.T) {
	newTestServer(t)
	live := &GodisDB{id: 0, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})}
	live.data.Add(CreateStringObject("k"), CreateStringObject("v1"))

	clones, err := snapshotCopy([]*GodisDB{live})
	require.NoError(t, err)

	live.data.Set(CreateStringObject("k"), CreateStringObject("v2"))

	assert.Equal(t, "v1", clones[0].data.Get(CreateStringObject("k")).StrVal())
	assert.Equal(t, "v2", live.data.Get(CreateStringObject("k")).StrVal())
}
