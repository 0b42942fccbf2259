package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingAndEcho(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)

	c.args = cmdArgs("ping")
	pingCommand(c)
	assert.Equal(t, "+PONG\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("echo", "hi")
	echoCommand(c)
	assert.Equal(t, "2\r\nhi\r\n", replyBytes(c))
}

func TestSelectValidAndInvalid(t *testing.T) {
	newTestServer(t)
	server.dbs = append(server.dbs, &GodisDB{id: 1, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})})
	c := newTestClient(t)

	c.args = cmdArgs("select", "1")
	selectCommand(c)
	assert.Equal(t, "+OK\r\n", replyBytes(c))
	assert.Equal(t, 1, c.db.id)
	freeReplyList(c)

	c.args = cmdArgs("select", "99")
	selectCommand(c)
	assert.Contains(t, replyBytes(c), "invalid DB index")
}

func TestTypeCommand(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)

	c.args = cmdArgs("type", "nope")
	typeCommand(c)
	assert.Equal(t, "none\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("set", "s", "v")
	setCommand(c)
	freeReplyList(c)
	c.args = cmdArgs("type", "s")
	typeCommand(c)
	assert.Equal(t, "string\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("rpush", "l", "v")
	rpushCommand(c)
	freeReplyList(c)
	c.args = cmdArgs("type", "l")
	typeCommand(c)
	assert.Equal(t, "list\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("sadd", "st", "v")
	saddCommand(c)
	freeReplyList(c)
	c.args = cmdArgs("type", "st")
	typeCommand(c)
	assert.Equal(t, "set\r\n", replyBytes(c))
}

func TestDbsize(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("dbsize")
	dbsizeCommand(c)
	assert.Equal(t, "0\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("set", "k", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("dbsize")
	dbsizeCommand(c)
	assert.Equal(t, "1\r\n", replyBytes(c))
}

func TestKeysMatchesPatternAndPatchesHeader(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	for _, k := range []string{"one", "two", "three"} {
		c.args = cmdArgs("set", k, "v")
		setCommand(c)
		freeReplyList(c)
	}

	c.args = cmdArgs("keys", "*")
	keysCommand(c)
	got := replyBytes(c)
	assert.Contains(t, got, "one")
	assert.Contains(t, got, "two")
	assert.Contains(t, got, "three")
	assert.True(t, len(got) > 0 && got[len(got)-2:] == "\r\n")
}

func TestKeysWithGlobPattern(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	for _, k := range []string{"foo1", "foo2", "bar"} {
		c.args = cmdArgs("set", k, "v")
		setCommand(c)
		freeReplyList(c)
	}

	c.args = cmdArgs("keys", "foo*")
	keysCommand(c)
	got := replyBytes(c)
	assert.Contains(t, got, "foo1")
	assert.Contains(t, got, "foo2")
	assert.NotContains(t, got, "bar")
}

func TestLastsaveBeforeAnySave(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("lastsave")
	lastsaveCommand(c)
	assert.Equal(t, "0\r\n", replyBytes(c))
}
