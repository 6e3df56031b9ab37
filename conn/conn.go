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

// Package conn implements the per-connection pipeline loop: read,
// decode, dispatch, and batch-flush, one goroutine per accepted socket.
package conn

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"

	"github.com/duskdb/duskdb/command"
	"github.com/duskdb/duskdb/common"
	"github.com/duskdb/duskdb/internal/rescue"
	"github.com/duskdb/duskdb/logger"
	"github.com/duskdb/duskdb/resp"
)

// Conn owns one accepted socket end to end. It holds no shared state
// beyond a handle to the command Dispatcher; everything else (the read
// buffer, the pending-reply buffer, the RESP parser, the session) is
// private to this goroutine, matching spec.md §4.E's "no shared state"
// requirement.
type Conn struct {
	id      string
	netConn net.Conn
	dsp     *command.Dispatcher
	parser  *resp.Parser
	sess    *command.Session

	readBuf []byte
}

// New wraps an accepted socket. id is a connection identifier used only
// for logging (the teacher's own connection-tracking uses the same
// google/uuid package for tuple identification).
func New(nc net.Conn, dsp *command.Dispatcher) *Conn {
	return &Conn{
		id:      uuid.NewString(),
		netConn: nc,
		dsp:     dsp,
		parser:  resp.NewParser(),
		sess:    &command.Session{},
		readBuf: make([]byte, common.ReadBlockSize),
	}
}

// Serve runs the connection's pipeline loop until the peer closes the
// socket or a protocol error forces a close. It is meant to be the
// entire body of the per-connection goroutine the listener spawns.
func (c *Conn) Serve() {
	defer rescue.HandleCrash()
	defer c.netConn.Close()

	connectionsActive.Inc()
	defer connectionsActive.Dec()

	out := bytebufferpool.Get()
	defer bytebufferpool.Put(out)

	for {
		n, err := c.netConn.Read(c.readBuf)
		if n > 0 {
			bytesRead.Add(float64(n))
			c.parser.Feed(c.readBuf[:n])
			if !c.drain(out) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debugf("conn %s: read error: %v", c.id, err)
			}
			return
		}
	}
}

// drain repeatedly decodes and dispatches complete frames until the
// parser needs more bytes, then flushes every accumulated reply in one
// write. Returns false if the connection should be closed (malformed
// input or a write failure).
func (c *Conn) drain(out *bytebufferpool.ByteBuffer) bool {
	for {
		frame, outcome, err := c.parser.Next()
		switch outcome {
		case resp.Incomplete:
			return c.flush(out)

		case resp.Malformed:
			logger.Debugf("conn %s: malformed frame: %v", c.id, err)
			c.flush(out)
			return false

		case resp.Complete:
			commandsTotal.Inc()
			reply := c.dispatch(frame)
			resp.WriteTo(out, reply)
		}
	}
}

// dispatch classifies frame as a command array and executes it.
// Anything that isn't a well-formed Array-of-Bulk is a protocol error:
// spec.md §7 says codec-level errors close the connection rather than
// producing a RESP error reply, but an Array whose elements are the
// wrong shape (e.g. a nested Array argument) is simply not a valid
// client request, so we reply with an ERR and keep the connection
// open — only truly unparseable bytes (resp.Malformed) drop it.
func (c *Conn) dispatch(frame *resp.Frame) *resp.Frame {
	argv, err := frame.StringValues()
	if err != nil {
		return resp.NewError("ERR Protocol error: expected array of bulk strings")
	}
	if len(argv) == 0 {
		return resp.NewError("ERR empty command")
	}
	return c.dsp.Execute(c.sess, argv)
}

// flush writes out's contents to the socket in a single call and resets
// it, batching an entire pipeline of replies into one syscall.
func (c *Conn) flush(out *bytebufferpool.ByteBuffer) bool {
	if len(out.B) == 0 {
		return true
	}
	n, err := c.netConn.Write(out.B)
	bytesWritten.Add(float64(n))
	out.Reset()
	if err != nil {
		logger.Debugf("conn %s: write error: %v", c.id, err)
		return false
	}
	return true
}
