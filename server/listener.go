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

package server

import (
	"net"

	"github.com/duskdb/duskdb/command"
	"github.com/duskdb/duskdb/conn"
	"github.com/duskdb/duskdb/logger"
)

// Listener is spec.md's component F: it binds the RESP TCP socket,
// accepts connections, and hands each to a fresh pipeline task. It is
// a distinct, much smaller sibling of Server (the admin HTTP surface)
// — the teacher's own server.go bundles admin routes behind one
// *http.Server; duskdb's primary listener speaks raw RESP instead of
// HTTP, so it gets its own minimal accept loop modeled on the same
// net.Listen/Serve shape.
type Listener struct {
	addr string
	dsp  *command.Dispatcher
	ln   net.Listener
}

// NewListener binds addr immediately so startup failures surface before
// Serve is called (matching spec.md §6's "non-zero on bind failure"
// exit code contract).
func NewListener(addr string, dsp *command.Dispatcher) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{addr: addr, dsp: dsp, ln: ln}, nil
}

// Addr reports the bound address (useful when addr was ":0").
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve accepts connections until the listener is closed, spawning one
// goroutine per connection. Graceful shutdown is not required by
// spec.md's core; Close simply stops new accepts and Serve returns.
func (l *Listener) Serve() error {
	logger.Infof("resp listener bound on %s", l.addr)
	for {
		nc, err := l.ln.Accept()
		if err != nil {
			return err
		}
		c := conn.New(nc, l.dsp)
		go c.Serve()
	}
}

func (l *Listener) Close() error {
	return l.ln.Close()
}
