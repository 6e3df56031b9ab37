// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conn

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/duskdb/duskdb/command"
	"github.com/duskdb/duskdb/store"
)

func newPipedConn(t *testing.T) (server, client net.Conn) {
	t.Helper()
	server, client = net.Pipe()
	return server, client
}

// TestPipelineOrdering sends several commands in a single write and
// verifies the replies come back in the same order, batched as spec.md
// §4.E requires.
func TestPipelineOrdering(t *testing.T) {
	server, client := newPipedConn(t)
	defer client.Close()

	dsp := command.New(store.New(16), command.InfoFields{Port: 6379})
	c := New(server, dsp)
	go c.Serve()

	_, err := client.Write([]byte(
		"*1\r\n$4\r\nPING\r\n" +
			"*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$5\r\nhello\r\n" +
			"*2\r\n$3\r\nGET\r\n$1\r\nk\r\n",
	))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "+PONG\r\n", line)

	line, err = r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", line)

	line, err = r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "$5\r\n", line)

	buf := make([]byte, 7)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello\r\n", string(buf))
}

// TestMalformedFrameClosesConnection checks that bytes which can never
// form a valid frame end the connection rather than hanging forever.
func TestMalformedFrameClosesConnection(t *testing.T) {
	server, client := newPipedConn(t)
	defer client.Close()

	dsp := command.New(store.New(16), command.InfoFields{Port: 6379})
	c := New(server, dsp)
	go c.Serve()

	_, err := client.Write([]byte("$abc\r\n"))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64)
	_, err = client.Read(buf)
	require.Error(t, err, "server should close the connection on malformed input")
}
