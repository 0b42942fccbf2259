package main

import (
	"sort"
	"strconv"
)

// saddCommand and sremCommand take one or more members per call (cmdTable's
// arity -3), a variadic extension beyond saddCommand/sremCommand's
// single-member original_source/redis.c form — the rest of the member
// handling (lazy set creation, type check, dirty accounting) is unchanged.
func saddCommand(c *GodisClient) {
	key := c.args[1]
	set := c.db.data.Get(key)
	if set == nil {
		set = CreateSetObject()
		c.db.data.Add(key, set)
		set.DecrRefCount()
	} else if set.Type_ != GSET {
		c.AddReply(shared.minus2)
		return
	}
	added := setTypeAdd(set, c.args[2:])
	if added == 0 {
		c.AddReply(shared.zero)
		return
	}
	server.dirty += added
	c.AddReplyInt(added)
}

func sremCommand(c *GodisClient) {
	set := c.db.data.Get(c.args[1])
	if set == nil {
		c.AddReply(shared.zero)
		return
	}
	if set.Type_ != GSET {
		c.AddReply(shared.minus2)
		return
	}
	removed := setTypeRemove(set, c.args[2:])
	if removed == 0 {
		c.AddReply(shared.zero)
		return
	}
	server.dirty += removed
	c.AddReplyInt(removed)
}

func sismemberCommand(c *GodisClient) {
	set := c.db.data.Get(c.args[1])
	if set == nil {
		c.AddReply(shared.zero)
		return
	}
	if set.Type_ != GSET {
		c.AddReply(shared.minus2)
		return
	}
	if setTypeIsMember(set, c.args[2]) {
		c.AddReply(shared.one)
	} else {
		c.AddReply(shared.zero)
	}
}

func scardCommand(c *GodisClient) {
	set := c.db.data.Get(c.args[1])
	if set == nil {
		c.AddReply(shared.zero)
		return
	}
	if set.Type_ != GSET {
		c.AddReply(shared.minus2)
		return
	}
	c.AddReplyStr(strconv.FormatInt(setTypeSize(set), 10) + CRLF)
}

// sinterCommand implements SINTER (and, aliased in cmdTable, SMEMBERS for a
// single key), adapted from sinterCommand in original_source/redis.c: sets
// are probed smallest-cardinality-first so the inner membership scan runs
// over the fewest possible sets, and the multi-bulk count header is patched
// in place after the result is known rather than computed up front — the
// same deferred-length trick keysCommand uses, since the intersection's size
// isn't known until the smallest set has been fully walked.
func sinterCommand(c *GodisClient) {
	keys := c.args[1:]
	dicts := make([]*Dict, len(keys))
	for i, k := range keys {
		val := c.db.data.Get(k)
		if val == nil {
			c.AddReply(shared.nilReply)
			return
		}
		if val.Type_ != GSET {
			c.AddReply(shared.wrongtypeerrbulk)
			return
		}
		dicts[i] = val.Dict()
	}
	sort.Slice(dicts, func(i, j int) bool { return dicts[i].Size() < dicts[j].Size() })

	lenobj := CreateStringObject("")
	c.AddReply(lenobj)
	lenobj.DecrRefCount()

	var cardinality int64
	dicts[0].ForEach(func(key, _ *Gobj) bool {
		for _, d := range dicts[1:] {
			if d.Find(key) == nil {
				return true
			}
		}
		c.AddReplyBulk(key.StrVal())
		cardinality++
		return true
	})
	lenobj.Val_ = strconv.FormatInt(cardinality, 10) + CRLF
}
