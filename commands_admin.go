package main

import (
	"os"
	"strconv"
)

func pingCommand(c *GodisClient) {
	c.AddReply(shared.pong)
}

func echoCommand(c *GodisClient) {
	c.AddReplyBulk(c.args[1].StrVal())
}

func selectCommand(c *GodisClient) {
	id, err := strconv.Atoi(c.args[1].StrVal())
	if err != nil || selectDb(c, id) != nil {
		c.AddReplyError("invalid DB index")
		return
	}
	c.AddReply(shared.ok)
}

func randomkeyCommand(c *GodisClient) {
	e := c.db.data.RandomGet()
	if e == nil {
		c.AddReply(shared.crlf)
		return
	}
	c.AddReply(e.Key)
	c.AddReply(shared.crlf)
}

// keysCommand implements KEYS, adapted from keysCommand in
// original_source/redis.c: a placeholder reply object is enqueued before the
// matching keys are known, then patched in place once the scan is done,
// since the final byte length (every matching key plus the single spaces
// between them) can't be computed until every key has been visited.
func keysCommand(c *GodisClient) {
	pattern := c.args[1].StrVal()
	matchAll := pattern == "*"

	lenobj := CreateStringObject("")
	c.AddReply(lenobj)
	lenobj.DecrRefCount()

	var numkeys, keyslen int
	c.db.data.ForEach(func(key, _ *Gobj) bool {
		k := key.StrVal()
		if matchAll || globMatch(pattern, k) {
			if numkeys != 0 {
				c.AddReply(shared.space)
			}
			c.AddReply(key)
			numkeys++
			keyslen += len(k)
		}
		return true
	})
	spaces := 0
	if numkeys != 0 {
		spaces = numkeys - 1
	}
	lenobj.Val_ = strconv.Itoa(keyslen+spaces) + CRLF
	c.AddReply(shared.crlf)
}

func dbsizeCommand(c *GodisClient) {
	c.AddReplyStr(strconv.FormatInt(c.db.data.Size(), 10) + CRLF)
}

func lastsaveCommand(c *GodisClient) {
	c.AddReplyStr(strconv.FormatInt(server.lastsave, 10) + CRLF)
}

func typeCommand(c *GodisClient) {
	val := c.db.data.Get(c.args[1])
	typ := "none"
	if val != nil {
		switch val.Type_ {
		case GSTR:
			typ = "string"
		case GLIST:
			typ = "list"
		case GSET:
			typ = "set"
		}
	}
	c.AddReplyStr(typ + CRLF)
}

func saveCommand(c *GodisClient) {
	if err := saveDbs("dump.rdb", server.dbs); err == nil {
		c.AddReply(shared.ok)
	} else {
		c.AddReply(shared.err)
	}
}

func bgsaveCommand(c *GodisClient) {
	if server.bgsaveInProgress {
		c.AddReplyStr("-ERR background save already in progress" + CRLF)
		return
	}
	if err := bgsave("dump.rdb"); err == nil {
		c.AddReply(shared.ok)
	} else {
		c.AddReply(shared.err)
	}
}

func shutdownCommand(c *GodisClient) {
	log.Warnw("user requested shutdown, saving db")
	if err := saveDbs("dump.rdb", server.dbs); err == nil {
		log.Warnw("server exit now, bye bye")
		os.Exit(1)
	}
	log.Warnw("error trying to save the db, cannot exit")
	c.AddReplyStr("-ERR can't quit, problems saving the DB" + CRLF)
}
