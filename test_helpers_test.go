package main

import (
	"os"
	"testing"
)

// newTestServer installs a fresh global server with a single database and a
// real reactor, so command handlers (which reach through the package-global
// server) behave the way they would under initServer.
func newTestServer(t *testing.T) {
	t.Helper()
	loop, err := AeLoopCreate()
	if err != nil {
		t.Fatalf("AeLoopCreate: %v", err)
	}
	server = GodisServer{
		config:     defaultConfig(),
		dbs:        []*GodisDB{{id: 0, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})}},
		clients:    make(map[int]*GodisClient),
		aeLoop:     loop,
		bgsaveDone: make(chan bgsaveResult, 1),
	}
}

// newTestClient hands back a client backed by a real fd (an os.Pipe's write
// end) so AddReply's AddFileEvent call has something legitimate to register
// against.
func newTestClient(t *testing.T) *GodisClient {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return CreateClient(int(w.Fd()))
}

// cmdArgs builds a command's argv as *Gobj, the shape every handler in
// commands_*.go expects in c.args.
func cmdArgs(parts ...string) []*Gobj {
	args := make([]*Gobj, len(parts))
	for i, p := range parts {
		args[i] = CreateStringObject(p)
	}
	return args
}

// replyBytes concatenates every pending reply in order, the same bytes
// SendReplyToClient would have written to the socket.
func replyBytes(c *GodisClient) string {
	var out []byte
	for n := c.reply.First(); n != nil; n = n.next {
		out = append(out, []byte(n.Val.StrVal())...)
	}
	return string(out)
}
