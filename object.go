package main

import "strconv"

// Gtype is the tag of a Gobj's logical value: the three containers
// spec.md §3 closes the data model over. There is no separate Gencoding —
// the teacher's int/raw encoding split existed to support hash/zset
// variants this server doesn't implement.
type Gtype byte

const (
	GSTR  Gtype = 0
	GLIST Gtype = 1
	GSET  Gtype = 2
)

// Gobj is a reference-counted value object: the unit shared across argv,
// the reply queue, and the keyspace (spec.md §3, "Value object").
type Gobj struct {
	Type_    Gtype
	Val_     interface{}
	refCount int
}

// objFreeList recycles bare Gobj headers so teardown doesn't round-trip
// through the allocator on every key replacement, mirroring redisServer's
// objfreelist in original_source/redis.c. It is bounded only by process
// lifetime, per spec.md §3.
var objFreeList = ListCreate(ListType{EqualFunc: gobjPtrEqual})

func gobjPtrEqual(a, b *Gobj) bool { return a == b }

func allocGobj() *Gobj {
	if objFreeList.Length() > 0 {
		n := objFreeList.First()
		o := n.Val
		objFreeList.DelNode(n)
		return o
	}
	return &Gobj{}
}

// CreateObject returns a new value object with refcount 1, as
// createObject() does in original_source/redis.c.
func CreateObject(typ Gtype, val interface{}) *Gobj {
	o := allocGobj()
	o.Type_ = typ
	o.Val_ = val
	o.refCount = 1
	return o
}

func CreateStringObject(s string) *Gobj {
	return CreateObject(GSTR, s)
}

func CreateFromInt(val int64) *Gobj {
	return CreateObject(GSTR, strconv.FormatInt(val, 10))
}

func CreateListObject() *Gobj {
	return CreateObject(GLIST, ListCreate(ListType{EqualFunc: GStrEqual}))
}

func CreateSetObject() *Gobj {
	return CreateObject(GSET, DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual}))
}

func (o *Gobj) StrVal() string {
	if o == nil || o.Type_ != GSTR {
		return ""
	}
	return o.Val_.(string)
}

// IntVal parses the string payload as a signed 64-bit integer, returning 0
// on any non-string or unparsable value — callers that need to distinguish
// "absent/non-numeric" from "zero" use strconv.ParseInt themselves (see
// incrDecrGeneric in commands_string.go).
func (o *Gobj) IntVal() int64 {
	if o == nil || o.Type_ != GSTR {
		return 0
	}
	v, _ := strconv.ParseInt(o.Val_.(string), 10, 64)
	return v
}

func (o *Gobj) List() *List {
	return o.Val_.(*List)
}

func (o *Gobj) Dict() *Dict {
	return o.Val_.(*Dict)
}

// IncrRefCount adds a holder. A holder is argv, the reply queue, or a
// keyspace entry (spec.md §3).
func (o *Gobj) IncrRefCount() {
	o.refCount++
}

// DecrRefCount releases a holder. At zero, the payload is torn down
// according to its tag and the bare header returns to objFreeList — exactly
// once, per spec.md §3's refcount invariant.
func (o *Gobj) DecrRefCount() {
	o.refCount--
	if o.refCount > 0 {
		return
	}
	switch o.Type_ {
	case GLIST:
		o.Val_.(*List).Clear()
	case GSET:
		o.Val_.(*Dict).Clear()
	}
	o.Val_ = nil
	objFreeList.Append(o)
}
