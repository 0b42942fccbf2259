package main

import "strconv"

// pushGenericCommand implements LPUSH/RPUSH, adapted from pushGenericCommand
// in original_source/redis.c.
func pushGenericCommand(c *GodisClient, head bool) {
	key, val := c.args[1], c.args[2]
	lobj := c.db.data.Get(key)
	if lobj == nil {
		lobj = CreateListObject()
		c.db.data.Add(key, lobj)
		lobj.DecrRefCount() // dict.Add took its own reference
	} else if lobj.Type_ != GLIST {
		c.AddReply(shared.wrongtypeerr)
		return
	}
	val.IncrRefCount()
	if head {
		lobj.List().LPush(val)
	} else {
		lobj.List().Append(val)
	}
	server.dirty++
	c.AddReply(shared.ok)
}

func lpushCommand(c *GodisClient) { pushGenericCommand(c, true) }
func rpushCommand(c *GodisClient) { pushGenericCommand(c, false) }

func llenCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.zero)
		return
	}
	if val.Type_ != GLIST {
		c.AddReply(shared.minus2)
		return
	}
	c.AddReplyStr(strconv.FormatInt(val.List().Length(), 10) + CRLF)
}

// listIndexArg parses an LINDEX/LSET/LRANGE/LTRIM index argument the way
// atoi() does: non-numeric text silently parses as 0.
func listIndexArg(o *Gobj) int64 {
	n, _ := strconv.ParseInt(o.StrVal(), 10, 64)
	return n
}

func lindexCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.nilReply)
		return
	}
	if val.Type_ != GLIST {
		c.AddReply(shared.wrongtypeerrbulk)
		return
	}
	n := val.List().Index(listIndexArg(c.args[2]))
	if n == nil {
		c.AddReply(shared.nilReply)
		return
	}
	c.AddReplyBulk(n.Val.StrVal())
}

func lsetCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.nokeyerr)
		return
	}
	if val.Type_ != GLIST {
		c.AddReply(shared.wrongtypeerr)
		return
	}
	n := val.List().Index(listIndexArg(c.args[2]))
	if n == nil {
		c.AddReplyStr("-ERR index out of range" + CRLF)
		return
	}
	n.Val.DecrRefCount()
	n.Val = c.args[3]
	n.Val.IncrRefCount()
	server.dirty++
	c.AddReply(shared.ok)
}

// popGenericCommand implements LPOP/RPOP. The popped value's bytes are read
// before DelNode runs, since DelNode drops the node's reference and may hand
// the Gobj header straight back to objFreeList for reuse.
func popGenericCommand(c *GodisClient, head bool) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.nilReply)
		return
	}
	if val.Type_ != GLIST {
		c.AddReply(shared.wrongtypeerrbulk)
		return
	}
	list := val.List()
	var n *Node
	if head {
		n = list.First()
	} else {
		n = list.Last()
	}
	if n == nil {
		c.AddReply(shared.nilReply)
		return
	}
	s := n.Val.StrVal()
	c.AddReplyBulk(s)
	list.DelNode(n)
	server.dirty++
}

func lpopCommand(c *GodisClient) { popGenericCommand(c, true) }
func rpopCommand(c *GodisClient) { popGenericCommand(c, false) }

// normalizeRange converts LRANGE/LTRIM's possibly-negative start/end into
// clamped, in-bounds indexes the way lrangeCommand/ltrimCommand do.
func normalizeRange(start, end, llen int64) (int64, int64) {
	if start < 0 {
		start = llen + start
	}
	if end < 0 {
		end = llen + end
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	return start, end
}

func lrangeCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.nilReply)
		return
	}
	if val.Type_ != GLIST {
		c.AddReply(shared.wrongtypeerrbulk)
		return
	}
	list := val.List()
	llen := list.Length()
	start, end := normalizeRange(listIndexArg(c.args[2]), listIndexArg(c.args[3]), llen)
	if start > end || start >= llen {
		c.AddReply(shared.zero)
		return
	}
	if end >= llen {
		end = llen - 1
	}
	rangelen := end - start + 1
	c.AddReplyMultiBulkHeader(int(rangelen))
	n := list.Index(start)
	for j := int64(0); j < rangelen; j++ {
		c.AddReplyBulk(n.Val.StrVal())
		n = n.next
	}
}

func ltrimCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.nokeyerr)
		return
	}
	if val.Type_ != GLIST {
		c.AddReply(shared.wrongtypeerr)
		return
	}
	list := val.List()
	llen := list.Length()
	start, end := normalizeRange(listIndexArg(c.args[2]), listIndexArg(c.args[3]), llen)

	var ltrim, rtrim int64
	if start > end || start >= llen {
		ltrim, rtrim = llen, 0
	} else {
		if end >= llen {
			end = llen - 1
		}
		ltrim, rtrim = start, llen-end-1
	}
	for j := int64(0); j < ltrim; j++ {
		list.DelNode(list.First())
	}
	for j := int64(0); j < rtrim; j++ {
		list.DelNode(list.Last())
	}
	server.dirty++
	c.AddReply(shared.ok)
}
