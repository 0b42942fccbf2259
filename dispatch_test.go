package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCommandIsCaseSensitiveTable(t *testing.T) {
	cmd := lookupCommand("get")
	require.NotNil(t, cmd)
	assert.Equal(t, 2, cmd.arity)
	assert.Nil(t, lookupCommand("nonexistent"))
}

func TestProcessCommandRejectsWrongArity(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("get")
	ProcessCommand(c)
	assert.Contains(t, replyBytes(c), "wrong number of arguments")
}

func TestProcessCommandRejectsUnknown(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("notacommand", "x")
	ProcessCommand(c)
	assert.Contains(t, replyBytes(c), "unknown command")
}

func TestProcessCommandDefersBulkRead(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	// SET key <byteLen>: the trailing bulk-length token gets popped off
	// c.args, c.bulkLen is set, and the handler does not run yet.
	c.args = cmdArgs("set", "key", "3")
	alive := ProcessCommand(c)
	assert.True(t, alive)
	assert.Equal(t, 5, c.bulkLen) // 3 + len(CRLF)
	assert.Equal(t, 0, len(replyBytes(c)))
	assert.Equal(t, 2, len(c.args))
}

func TestProcessCommandVariadicAritySatisfied(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.args = cmdArgs("del", "a", "b", "c")
	alive := ProcessCommand(c)
	assert.True(t, alive)
}
