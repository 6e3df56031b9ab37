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

// Package command parses RESP command frames into typed invocations,
// validates them, and executes them against a store.Store, producing
// reply frames.
//
// The command table here plays the same role as the sniffer's
// `protocol/predis/command.go` valid-command table, but where that
// table only validated that an observed token *was* a known Redis verb
// (for passive classification), this one is the live dispatch table: it
// carries an arity contract and a handler per verb.
package command

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

// Session is per-connection state the dispatcher consults and mutates.
// A fresh Session is created per accepted socket (conn.Conn owns one).
type Session struct {
	DBIndex int
}

// Handler executes one command's arguments (excluding the command name
// itself) and returns the reply frame.
type Handler func(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame

// arity follows the Redis convention: a positive N means exactly N
// arguments after the command name; a negative N means at least -N.
// anyArity marks commands with no lower bound at all (e.g. PING).
const anyArity = -1 << 30

type entry struct {
	arity   int
	handler Handler
}

// Dispatcher holds the keyspace and the command table. It is shared
// read-only across all connections; all mutable state lives in Store
// (per shard) or Session (per connection).
type Dispatcher struct {
	store *store.Store
	table map[string]entry
	info  InfoFields
}

// InfoFields are the static fields INFO reports alongside live ones
// (uptime, key count) computed at call time.
type InfoFields struct {
	Version string
	Port    int
}

func New(s *store.Store, info InfoFields) *Dispatcher {
	d := &Dispatcher{store: s, table: make(map[string]entry), info: info}
	d.registerAdmin()
	d.registerString()
	d.registerList()
	d.registerHash()
	d.registerSet()
	d.registerZSet()
	d.registerJSON()
	d.registerExpire()
	return d
}

func (d *Dispatcher) register(name string, arity int, h Handler) {
	d.table[name] = entry{arity: arity, handler: h}
}

func checkArity(arity, n int) bool {
	if arity == anyArity {
		return true
	}
	if arity >= 0 {
		return n == arity
	}
	return n >= -arity
}

// Execute looks up argv[0] as a command name, validates the arity of the
// remaining arguments, and runs the command. argv is the output of
// resp.Frame.StringValues; the caller (the connection pipeline) answers
// any frame that is not an Array of non-null Bulk strings with an ERR
// reply before reaching here.
func (d *Dispatcher) Execute(sess *Session, argv [][]byte) *resp.Frame {
	if len(argv) == 0 {
		return resp.NewError("ERR empty command")
	}

	name := strings.ToUpper(string(argv[0]))
	e, ok := d.table[name]
	if !ok {
		return resp.NewError("ERR unknown command '" + string(argv[0]) + "'")
	}

	args := argv[1:]
	if !checkArity(e.arity, len(args)) {
		return resp.NewError("ERR wrong number of arguments for '" + strings.ToLower(name) + "'")
	}

	return e.handler(d, sess, args)
}

func errWrongArgs(name string) *resp.Frame {
	return resp.NewError("ERR wrong number of arguments for '" + strings.ToLower(name) + "'")
}

func errNotInt() *resp.Frame {
	return resp.NewError("ERR value is not an integer or out of range")
}

func errNotFloat() *resp.Frame {
	return resp.NewError("ERR value is not a valid float")
}

func wrongTypeFrame() *resp.Frame {
	return resp.NewError(store.ErrWrongType.Error())
}

// parseIntArg coerces a command argument to int64 via cast, the way the
// teacher's common.Options getters coerce loosely-typed config values.
// Wire arguments arrive as []byte, not the interface{} cast normally
// takes, so every call site here pays the string conversion up front.
func parseIntArg(b []byte) (int64, *resp.Frame) {
	n, err := cast.ToInt64E(string(b))
	if err != nil {
		return 0, errNotInt()
	}
	return n, nil
}

// parseFloatArg is parseIntArg's float64 counterpart, used by ZADD's
// score arguments.
func parseFloatArg(b []byte) (float64, *resp.Frame) {
	f, err := cast.ToFloat64E(string(b))
	if err != nil {
		return 0, errNotFloat()
	}
	return f, nil
}
