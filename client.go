package main

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

const CRLF = "\r\n"

const (
	maxQueryBufLine int = 1024 // protocol-error threshold, readQueryFromClient's hardcoded 1024
	maxBulkLen      int = 1024 * 1024 * 1024
	ioBufSize       int = 1024 * 16
)

var (
	errBadDbIndex  = errors.New("invalid DB index")
	errProtocol    = errors.New("protocol error")
	errUnknownCmd  = errors.New("unknown command")
	errWrongArity  = errors.New("wrong number of arguments")
	errInvalidBulk = errors.New("invalid bulk write count")
)

// GodisClient is one connected client, adapted from redisClient in
// original_source/redis.c. bulkLen is -1 while the client is between
// commands (reading inline lines); once a bulk command's header line is
// parsed it holds the remaining byte count, including the trailing CRLF,
// still to be read (spec.md §4.3).
type GodisClient struct {
	fd    int
	db    *GodisDB
	args  []*Gobj
	reply *List

	sentLen  int
	queryBuf []byte
	bulkLen  int

	lastInteraction int64
}

func CreateClient(fd int) *GodisClient {
	c := &GodisClient{
		fd:              fd,
		db:              server.dbs[0],
		queryBuf:        make([]byte, 0, ioBufSize),
		reply:           ListCreate(ListType{EqualFunc: GStrEqual}),
		bulkLen:         -1,
		lastInteraction: time.Now().Unix(),
	}
	return c
}

func (c *GodisClient) AddReply(o *Gobj) {
	c.reply.Append(o)
	o.IncrRefCount()
	server.aeLoop.AddFileEvent(c.fd, AE_WRITABLE, SendReplyToClient, c)
}

func (c *GodisClient) AddReplyStr(s string) {
	o := CreateStringObject(s)
	c.AddReply(o)
	o.DecrRefCount()
}

func (c *GodisClient) AddReplyError(msg string) {
	c.AddReplyStr("-ERR " + msg + CRLF)
}

// AddReplyBulk writes a length-prefixed bulk reply, spec.md §6's
// `<len>\r\n<bytes>\r\n` shape.
func (c *GodisClient) AddReplyBulk(s string) {
	c.AddReplyStr(strconv.Itoa(len(s)) + CRLF + s + CRLF)
}

func (c *GodisClient) AddReplyInt(n int64) {
	c.AddReplyStr(strconv.FormatInt(n, 10) + CRLF)
}

// AddReplyMultiBulkHeader writes the `<count>\r\n` preamble for LRANGE and
// SINTER's multi-bulk replies (spec.md §6).
func (c *GodisClient) AddReplyMultiBulkHeader(n int) {
	c.AddReplyStr(strconv.Itoa(n) + CRLF)
}

func freeArgs(c *GodisClient) {
	for _, a := range c.args {
		a.DecrRefCount()
	}
	c.args = nil
}

// resetClient prepares c for the next command, mirroring resetClient() in
// original_source/redis.c.
func resetClient(c *GodisClient) {
	freeArgs(c)
	c.bulkLen = -1
}

func freeReplyList(c *GodisClient) {
	for c.reply.Length() != 0 {
		c.reply.DelNode(c.reply.First())
	}
}

func freeClient(c *GodisClient) {
	freeArgs(c)
	delete(server.clients, c.fd)
	server.aeLoop.RemoveFileEvent(c.fd, AE_READABLE)
	server.aeLoop.RemoveFileEvent(c.fd, AE_WRITABLE)
	freeReplyList(c)
	Close(c.fd)
}

// parseInlineLine splits one CRLF/LF-terminated line into argv the way
// readQueryFromClient's sdssplitlen call does, skipping zero-length
// tokens (consecutive spaces never produce an empty argument).
func parseInlineLine(line []byte) []*Gobj {
	var args []*Gobj
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			args = append(args, CreateStringObject(string(line[start:end])))
		}
		start = -1
	}
	for i, b := range line {
		if b == ' ' {
			flush(i)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(line))
	return args
}

// ProcessQueryBuf drains every complete command currently sitting in
// c.queryBuf, mirroring readQueryFromClient's "again:" loop in
// original_source/redis.c — a single read() can contain several pipelined
// commands, and this keeps dispatching until the buffer is exhausted or a
// command is still incomplete.
func (c *GodisClient) ProcessQueryBuf() error {
	for {
		if c.bulkLen == -1 {
			idx := bytes.IndexByte(c.queryBuf, '\n')
			if idx < 0 {
				if len(c.queryBuf) >= maxQueryBufLine {
					return errProtocol
				}
				return nil
			}
			line := c.queryBuf[:idx]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			rest := c.queryBuf[idx+1:]
			c.queryBuf = append([]byte{}, rest...)

			if len(line) == 0 {
				continue
			}
			c.args = append(c.args, parseInlineLine(line)...)

			stillAlive := ProcessCommand(c)
			if !stillAlive {
				return nil
			}
			if len(c.queryBuf) == 0 {
				return nil
			}
			continue
		}

		// Bulk read: c.bulkLen already counts the trailing CRLF.
		if len(c.queryBuf) < c.bulkLen {
			return nil
		}
		payload := string(c.queryBuf[:c.bulkLen-2])
		c.args = append(c.args, CreateStringObject(payload))
		c.queryBuf = append([]byte{}, c.queryBuf[c.bulkLen:]...)
		ProcessCommand(c)
		return nil
	}
}

func ReadQueryFromClient(loop *AeLoop, fd int, extra interface{}) {
	c := extra.(*GodisClient)
	buf := make([]byte, ioBufSize)
	n, err := Read(fd, buf)
	if err != nil {
		log.Debugw("read from client failed", "fd", fd, "error", err)
		freeClient(c)
		return
	}
	if n == 0 {
		log.Debugw("client closed connection", "fd", fd)
		freeClient(c)
		return
	}
	c.queryBuf = append(c.queryBuf, buf[:n]...)
	c.lastInteraction = time.Now().Unix()

	if err := c.ProcessQueryBuf(); err != nil {
		log.Debugw("client protocol error", "fd", fd, "error", err)
		freeClient(c)
	}
}

func SendReplyToClient(loop *AeLoop, fd int, extra interface{}) {
	c := extra.(*GodisClient)
	for c.reply.Length() > 0 {
		rep := c.reply.First()
		buf := []byte(rep.Val.StrVal())
		if c.sentLen >= len(buf) {
			c.reply.DelNode(rep)
			c.sentLen = 0
			continue
		}
		n, err := Write(fd, buf[c.sentLen:])
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
				return // socket isn't writable yet, wait for the next event
			}
			log.Debugw("send reply failed", "fd", fd, "error", err)
			freeClient(c)
			return
		}
		c.sentLen += n
		if c.sentLen < len(buf) {
			return // wait for next writable event
		}
		c.reply.DelNode(rep)
		c.sentLen = 0
	}
	loop.RemoveFileEvent(fd, AE_WRITABLE)
}
