package main

import "strconv"

// setGenericCommand implements SET/SETNX, adapted from setGenericCommand in
// original_source/redis.c. nx selects the "only if absent" variant.
func setGenericCommand(c *GodisClient, nx bool) {
	key, val := c.args[1], c.args[2]
	if err := c.db.data.Add(key, val); err != nil {
		if nx {
			c.AddReply(shared.zero)
			return
		}
		c.db.data.Set(key, val)
	}
	server.dirty++
	if nx {
		c.AddReply(shared.one)
	} else {
		c.AddReply(shared.ok)
	}
}

func setCommand(c *GodisClient)   { setGenericCommand(c, false) }
func setnxCommand(c *GodisClient) { setGenericCommand(c, true) }

func getCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	if val == nil {
		c.AddReply(shared.nilReply)
		return
	}
	if val.Type_ != GSTR {
		c.AddReply(shared.wrongtypeerrbulk)
		return
	}
	c.AddReplyBulk(val.StrVal())
}

// incrDecrGeneric implements INCR/DECR/INCRBY/DECRBY, adapted from
// incrDecrCommand. A non-numeric or absent existing value is treated as 0,
// matching strtoll's failure behavior in the original.
func incrDecrGeneric(c *GodisClient, delta int64) {
	key := c.args[1]
	var value int64
	if old := c.db.data.Get(key); old != nil && old.Type_ == GSTR {
		value, _ = strconv.ParseInt(old.StrVal(), 10, 64)
	}
	value += delta
	newVal := CreateFromInt(value)
	c.db.data.Set(key, newVal)
	newVal.DecrRefCount() // Set took its own reference
	server.dirty++
	c.AddReplyStr(strconv.FormatInt(value, 10) + CRLF)
}

func incrCommand(c *GodisClient) { incrDecrGeneric(c, 1) }
func decrCommand(c *GodisClient) { incrDecrGeneric(c, -1) }

func incrbyCommand(c *GodisClient) {
	n, _ := strconv.ParseInt(c.args[2].StrVal(), 10, 64)
	incrDecrGeneric(c, n)
}

func decrbyCommand(c *GodisClient) {
	n, _ := strconv.ParseInt(c.args[2].StrVal(), 10, 64)
	incrDecrGeneric(c, -n)
}
