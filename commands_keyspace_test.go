package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelAndExists(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("set", "k", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("exists", "k")
	existsCommand(c)
	assert.Equal(t, "1\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("del", "k")
	delCommand(c)
	assert.Equal(t, "1\r\n", replyBytes(c))
	freeReplyList(c)

	c.args = cmdArgs("exists", "k")
	existsCommand(c)
	assert.Equal(t, "0\r\n", replyBytes(c))
}

func TestDelMultipleKeys(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("set", "k1", "v")
	setCommand(c)
	freeReplyList(c)
	c.args = cmdArgs("set", "k2", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("del", "k1", "k2", "missing")
	delCommand(c)
	assert.Equal(t, "2\r\n", replyBytes(c))
	assert.Nil(t, c.db.data.Get(CreateStringObject("k1")))
	assert.Nil(t, c.db.data.Get(CreateStringObject("k2")))
}

func TestRenameMovesValue(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("set", "src", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("rename", "src", "dst")
	renameCommand(c)
	assert.Equal(t, "+OK\r\n", replyBytes(c))

	assert.Nil(t, c.db.data.Get(CreateStringObject("src")))
	require.NotNil(t, c.db.data.Get(CreateStringObject("dst")))
	assert.Equal(t, "v", c.db.data.Get(CreateStringObject("dst")).StrVal())
}

func TestRenameSameKeyErrors(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("set", "k", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("rename", "k", "k")
	renameCommand(c)
	assert.Contains(t, replyBytes(c), "src and dest key are the same")
}

func TestRenamenxRefusesIfDestExists(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("set", "src", "1")
	setCommand(c)
	freeReplyList(c)
	c.args = cmdArgs("set", "dst", "2")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("renamenx", "src", "dst")
	renamenxCommand(c)
	assert.Equal(t, "0\r\n", replyBytes(c))
	assert.Equal(t, "2", c.db.data.Get(CreateStringObject("dst")).StrVal())
}

func TestMoveBetweenDatabases(t *testing.T) {
	newTestServer(t)
	server.dbs = append(server.dbs, &GodisDB{id: 1, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})})
	c := newTestClient(t)

	c.args = cmdArgs("set", "k", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("move", "k", "1")
	moveCommand(c)
	assert.Equal(t, "1\r\n", replyBytes(c))

	assert.Nil(t, c.db.data.Get(CreateStringObject("k")))
	assert.Equal(t, "v", server.dbs[1].data.Get(CreateStringObject("k")).StrVal())
}

func TestMoveToSameDatabaseErrors(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("set", "k", "v")
	setCommand(c)
	freeReplyList(c)

	c.args = cmdArgs("move", "k", "0")
	moveCommand(c)
	assert.Equal(t, shared.minus3.StrVal(), replyBytes(c))
}
