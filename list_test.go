package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestList() *List {
	return ListCreate(ListType{EqualFunc: GStrEqual})
}

func TestListAppendAndLPush(t *testing.T) {
	l := newTestList()
	l.Append(CreateStringObject("b"))
	l.LPush(CreateStringObject("a"))
	l.Append(CreateStringObject("c"))

	require.Equal(t, int64(3), l.Length())
	assert.Equal(t, "a", l.First().Val.StrVal())
	assert.Equal(t, "c", l.Last().Val.StrVal())
}

func TestListIndexNegative(t *testing.T) {
	l := newTestList()
	for _, s := range []string{"a", "b", "c"} {
		l.Append(CreateStringObject(s))
	}
	assert.Equal(t, "c", l.Index(-1).Val.StrVal())
	assert.Equal(t, "a", l.Index(-3).Val.StrVal())
	assert.Nil(t, l.Index(-4))
	assert.Nil(t, l.Index(3))
}

func TestListDelNodeUnlinksAndReleases(t *testing.T) {
	l := newTestList()
	l.Append(CreateStringObject("a"))
	l.Append(CreateStringObject("b"))
	l.Append(CreateStringObject("c"))

	mid := l.Index(1)
	l.DelNode(mid)

	require.Equal(t, int64(2), l.Length())
	assert.Equal(t, "a", l.First().Val.StrVal())
	assert.Equal(t, "c", l.Last().Val.StrVal())
	assert.Equal(t, l.Last(), l.First().next)
}

func TestListClear(t *testing.T) {
	l := newTestList()
	l.Append(CreateStringObject("a"))
	l.Append(CreateStringObject("b"))
	l.Clear()
	assert.Equal(t, int64(0), l.Length())
	assert.Nil(t, l.First())
	assert.Nil(t, l.Last())
}

func TestListForEachStopsEarly(t *testing.T) {
	l := newTestList()
	for _, s := range []string{"a", "b", "c"} {
		l.Append(CreateStringObject(s))
	}
	var visited []string
	l.ForEach(func(n *Node) bool {
		visited = append(visited, n.Val.StrVal())
		return n.Val.StrVal() != "b"
	})
	assert.Equal(t, []string{"a", "b"}, visited)
}
