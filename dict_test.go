package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDict() *Dict {
	return DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})
}

func TestDictAddFindDelete(t *testing.T) {
	d := newTestDict()
	k, v := CreateStringObject("k"), CreateStringObject("v")
	require.NoError(t, d.Add(k, v))
	assert.ErrorIs(t, d.Add(k, v), EX_ERR)

	entry := d.Find(k)
	require.NotNil(t, entry)
	assert.Equal(t, "v", entry.Value.StrVal())

	require.NoError(t, d.Delete(k))
	assert.Nil(t, d.Find(k))
	assert.ErrorIs(t, d.Delete(k), NK_ERR)
}

func TestDictSetReplacesExisting(t *testing.T) {
	d := newTestDict()
	k := CreateStringObject("k")
	d.Set(k, CreateStringObject("first"))
	d.Set(k, CreateStringObject("second"))
	assert.Equal(t, "second", d.Get(k).StrVal())
	assert.Equal(t, int64(1), d.Size())
}

func TestDictGrowsPastInitialSize(t *testing.T) {
	d := newTestDict()
	for i := 0; i < 100; i++ {
		k := CreateFromInt(int64(i))
		require.NoError(t, d.Add(k, nil))
	}
	assert.Equal(t, int64(100), d.Size())
	for i := 0; i < 100; i++ {
		assert.NotNil(t, d.Find(CreateFromInt(int64(i))), "key %d should still be found after growth", i)
	}
}

func TestDictForEachVisitsEveryEntry(t *testing.T) {
	d := newTestDict()
	want := map[string]bool{"a": true, "b": true, "c": true}
	for k := range want {
		require.NoError(t, d.Add(CreateStringObject(k), nil))
	}
	seen := map[string]bool{}
	d.ForEach(func(key, _ *Gobj) bool {
		seen[key.StrVal()] = true
		return true
	})
	assert.Equal(t, want, seen)
}

func TestDictForEachStopsEarly(t *testing.T) {
	d := newTestDict()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, d.Add(CreateStringObject(k), nil))
	}
	count := 0
	d.ForEach(func(key, _ *Gobj) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestDictClear(t *testing.T) {
	d := newTestDict()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, d.Add(CreateStringObject(k), nil))
	}
	d.Clear()
	assert.Equal(t, int64(0), d.Size())
}

func TestNextPowerRoundsUp(t *testing.T) {
	assert.Equal(t, INIT_SIZE, nextPower(1))
	assert.Equal(t, int64(16), nextPower(9))
	assert.Equal(t, int64(16), nextPower(16))
	assert.Equal(t, int64(32), nextPower(17))
}

func TestGStrHashIgnoresNonString(t *testing.T) {
	assert.Equal(t, int64(0), GStrHash(CreateListObject()))
}
