package main

func delCommand(c *GodisClient) {
	var deleted int64
	for _, key := range c.args[1:] {
		if c.db.data.Delete(key) == nil {
			deleted++
		}
	}
	server.dirty += deleted
	c.AddReplyInt(deleted)
}

func existsCommand(c *GodisClient) {
	if c.db.data.Get(c.args[1]) == nil {
		c.AddReply(shared.zero)
	} else {
		c.AddReply(shared.one)
	}
}

// moveCommand implements MOVE. Unlike moveCommand in
// original_source/redis.c, which transiently repoints c->dict at the
// destination database to reuse selectDb's lookup plumbing, this resolves
// both databases up front — c.db never changes for the duration of a single
// command.
func moveCommand(c *GodisClient) {
	id := int(listIndexArg(c.args[2]))
	if id < 0 || id >= len(server.dbs) {
		c.AddReply(shared.minus4)
		return
	}
	src, dst := c.db, server.dbs[id]
	if src == dst {
		c.AddReply(shared.minus3)
		return
	}
	key := c.args[1]
	val := src.data.Get(key)
	if val == nil {
		c.AddReply(shared.zero)
		return
	}
	if err := dst.data.Add(key, val); err != nil {
		c.AddReply(shared.zero)
		return
	}
	src.data.Delete(key)
	server.dirty++
	c.AddReply(shared.one)
}

// renameGenericCommand implements RENAME/RENAMENX, adapted from
// renameGenericCommand in original_source/redis.c.
func renameGenericCommand(c *GodisClient, nx bool) {
	src, dst := c.args[1], c.args[2]
	if src.StrVal() == dst.StrVal() {
		if nx {
			c.AddReply(shared.minus3)
		} else {
			c.AddReplyError("src and dest key are the same")
		}
		return
	}
	val := c.db.data.Get(src)
	if val == nil {
		if nx {
			c.AddReply(shared.minus1)
		} else {
			c.AddReply(shared.nokeyerr)
		}
		return
	}
	if err := c.db.data.Add(dst, val); err != nil {
		if nx {
			c.AddReply(shared.zero)
			return
		}
		c.db.data.Set(dst, val)
	}
	c.db.data.Delete(src)
	server.dirty++
	if nx {
		c.AddReply(shared.one)
	} else {
		c.AddReply(shared.ok)
	}
}

func renameCommand(c *GodisClient)   { renameGenericCommand(c, false) }
func renamenxCommand(c *GodisClient) { renameGenericCommand(c, true) }
