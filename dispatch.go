package main

import (
	"strconv"
	"strings"
)

type CommandProc func(c *GodisClient)

// GodisCommand mirrors struct redisCommand in original_source/redis.c.
// arity follows the same sign convention: positive means "exactly this
// many argv", negative means "at least this many". isBulk marks a
// command whose last inline token is actually a byte length, not a value
// (spec.md §4.3).
type GodisCommand struct {
	name   string
	proc   CommandProc
	arity  int
	isBulk bool
}

var cmdTable = []GodisCommand{
	{"get", getCommand, 2, false},
	{"set", setCommand, 3, true},
	{"setnx", setnxCommand, 3, true},
	{"del", delCommand, -2, false},
	{"exists", existsCommand, 2, false},
	{"incr", incrCommand, 2, false},
	{"decr", decrCommand, 2, false},
	{"incrby", incrbyCommand, 3, false},
	{"decrby", decrbyCommand, 3, false},

	{"rpush", rpushCommand, 3, true},
	{"lpush", lpushCommand, 3, true},
	{"rpop", rpopCommand, 2, false},
	{"lpop", lpopCommand, 2, false},
	{"llen", llenCommand, 2, false},
	{"lindex", lindexCommand, 3, false},
	{"lset", lsetCommand, 4, true},
	{"lrange", lrangeCommand, 4, false},
	{"ltrim", ltrimCommand, 4, false},

	{"sadd", saddCommand, -3, true},
	{"srem", sremCommand, -3, true},
	{"sismember", sismemberCommand, 3, true},
	{"scard", scardCommand, 2, false},
	{"sinter", sinterCommand, -2, false},
	{"smembers", sinterCommand, 2, false},

	{"randomkey", randomkeyCommand, 1, false},
	{"select", selectCommand, 2, false},
	{"move", moveCommand, 3, false},
	{"rename", renameCommand, 3, false},
	{"renamenx", renamenxCommand, 3, false},
	{"keys", keysCommand, 2, false},
	{"dbsize", dbsizeCommand, 1, false},
	{"type", typeCommand, 2, false},

	{"ping", pingCommand, 1, false},
	{"echo", echoCommand, 2, true},
	{"save", saveCommand, 1, false},
	{"bgsave", bgsaveCommand, 1, false},
	{"shutdown", shutdownCommand, 1, false},
	{"lastsave", lastsaveCommand, 1, false},
}

func lookupCommand(name string) *GodisCommand {
	for i := range cmdTable {
		if cmdTable[i].name == name {
			return &cmdTable[i]
		}
	}
	return nil
}

// ProcessCommand executes c.args[0] or prepares the client for a trailing
// bulk read, mirroring processCommand() in original_source/redis.c.
// Returns false only when the client was torn down (QUIT), matching the
// original's "client still alive" return convention that
// ProcessQueryBuf's caller relies on to decide whether to keep draining
// the query buffer.
func ProcessCommand(c *GodisClient) bool {
	if len(c.args) == 0 {
		resetClient(c)
		return true
	}
	name := strings.ToLower(c.args[0].StrVal())

	if name == "quit" {
		c.AddReplyStr("+OK" + CRLF)
		SendReplyToClient(server.aeLoop, c.fd, c)
		freeClient(c)
		return false
	}

	cmd := lookupCommand(name)
	if cmd == nil {
		c.AddReplyError("unknown command")
		resetClient(c)
		return true
	}
	argc := len(c.args)
	if (cmd.arity > 0 && cmd.arity != argc) || (cmd.arity < 0 && argc < -cmd.arity) {
		c.AddReplyError("wrong number of arguments")
		resetClient(c)
		return true
	}
	if cmd.isBulk && c.bulkLen == -1 {
		last := c.args[len(c.args)-1]
		n, err := strconv.Atoi(last.StrVal())
		last.DecrRefCount()
		c.args = c.args[:len(c.args)-1]
		if err != nil || n < 0 || n > maxBulkLen {
			c.AddReplyError("invalid bulk write count")
			resetClient(c)
			return true
		}
		c.bulkLen = n + 2 // account for the trailing CRLF
		return true
	}

	cmd.proc(c)
	resetClient(c)
	return true
}
