package main

import "fmt"

// sharedObjects holds the handful of constant reply strings every command
// handler reuses instead of allocating, ported from createSharedObjects()
// in original_source/redis.c. Every field is a *Gobj already carrying the
// full wire framing (trailing "\r\n"), ready to hand straight to
// addReply.
type sharedObjects struct {
	crlf             *Gobj
	ok               *Gobj
	err              *Gobj
	zerobulk         *Gobj
	nilReply         *Gobj
	zero             *Gobj
	one              *Gobj
	minus1           *Gobj
	minus2           *Gobj
	minus3           *Gobj
	minus4           *Gobj
	pong             *Gobj
	wrongtypeerr     *Gobj
	wrongtypeerrbulk *Gobj
	nokeyerr         *Gobj
	nokeyerrbulk     *Gobj
	space            *Gobj
}

var shared = createSharedObjects()

func createSharedObjects() *sharedObjects {
	const wrongtypeMsg = "-ERR Operation against a key holding the wrong kind of value\r\n"
	const nokeyMsg = "-ERR no suck key\r\n"

	s := &sharedObjects{
		crlf:         CreateStringObject("\r\n"),
		ok:           CreateStringObject("+OK\r\n"),
		err:          CreateStringObject("-ERR\r\n"),
		zerobulk:     CreateStringObject("0\r\n\r\n"),
		nilReply:     CreateStringObject("nil\r\n"),
		zero:         CreateStringObject("0\r\n"),
		one:          CreateStringObject("1\r\n"),
		minus1:       CreateStringObject("-1\r\n"),
		minus2:       CreateStringObject("-2\r\n"),
		minus3:       CreateStringObject("-3\r\n"),
		minus4:       CreateStringObject("-4\r\n"),
		pong:         CreateStringObject("+PONG\r\n"),
		wrongtypeerr: CreateStringObject(wrongtypeMsg),
		nokeyerr:     CreateStringObject(nokeyMsg),
		space:        CreateStringObject(" "),
	}
	// bulk framings carry a negative "length" ahead of the error text,
	// the same sdscatprintf("%d\r\n%s", -len+2, text) trick redis.c uses
	// so a bulk-expecting client can still surface the error inline.
	s.wrongtypeerrbulk = CreateStringObject(bulkErrFraming(wrongtypeMsg))
	s.nokeyerrbulk = CreateStringObject(bulkErrFraming(nokeyMsg))
	return s
}

func bulkErrFraming(msg string) string {
	return fmt.Sprintf("%d\r\n%s", -len(msg)+2, msg)
}
