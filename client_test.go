package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInlineLineSkipsExtraSpaces(t *testing.T) {
	args := parseInlineLine([]byte("PING   foo  bar"))
	require.Len(t, args, 3)
	assert.Equal(t, "PING", args[0].StrVal())
	assert.Equal(t, "foo", args[1].StrVal())
	assert.Equal(t, "bar", args[2].StrVal())
}

func TestProcessQueryBufInlineCommand(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.queryBuf = []byte("PING\r\n")
	require.NoError(t, c.ProcessQueryBuf())
	assert.Equal(t, "+PONG\r\n", replyBytes(c))
	assert.Equal(t, 0, len(c.queryBuf))
}

func TestProcessQueryBufBulkCommandAcrossTwoReads(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)

	// First read: the inline header line, naming a 3-byte bulk payload.
	c.queryBuf = []byte("SET key 3\r\n")
	require.NoError(t, c.ProcessQueryBuf())
	assert.Equal(t, 0, len(replyBytes(c)))
	assert.Equal(t, 5, c.bulkLen) // 3 + len(CRLF)

	// Second read: the bulk payload itself.
	c.queryBuf = append(c.queryBuf, []byte("bar\r\n")...)
	require.NoError(t, c.ProcessQueryBuf())
	assert.Equal(t, "+OK\r\n", replyBytes(c))
	assert.Equal(t, "bar", c.db.data.Get(CreateStringObject("key")).StrVal())
}

func TestProcessQueryBufPipelinedCommands(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	c.queryBuf = []byte("PING\r\nPING\r\n")
	require.NoError(t, c.ProcessQueryBuf())
	assert.Equal(t, "+PONG\r\n+PONG\r\n", replyBytes(c))
}

func TestProcessQueryBufProtocolErrorOnOverlongLine(t *testing.T) {
	newTestServer(t)
	c := newTestClient(t)
	huge := make([]byte, maxQueryBufLine+1)
	for i := range huge {
		huge[i] = 'x'
	}
	c.queryBuf = huge
	assert.ErrorIs(t, c.ProcessQueryBuf(), errProtocol)
}
