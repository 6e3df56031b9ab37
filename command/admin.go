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

package command

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/duskdb/duskdb/common"
	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

func (d *Dispatcher) registerAdmin() {
	d.register("PING", anyArity, cmdPing)
	d.register("ECHO", 1, cmdEcho)
	d.register("AUTH", -1, cmdAuth)
	d.register("SELECT", 1, cmdSelect)
	d.register("INFO", anyArity, cmdInfo)
	d.register("DBSIZE", 0, cmdDBSize)
	d.register("FLUSHDB", anyArity, cmdFlushDB)
	d.register("FLUSHALL", anyArity, cmdFlushDB)
	d.register("TYPE", 1, cmdType)
	d.register("KEYS", 1, cmdKeys)
	d.register("SCAN", -1, cmdScan)
	d.register("COMMAND", anyArity, cmdCommand)
}

func cmdPing(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	switch len(args) {
	case 0:
		return resp.NewSimpleString("PONG")
	case 1:
		return resp.NewBulk(args[0])
	default:
		return errWrongArgs("PING")
	}
}

func cmdEcho(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return resp.NewBulk(args[0])
}

func cmdAuth(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return resp.NewSimpleString("OK")
}

func cmdSelect(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	idx64, errFrame := parseIntArg(args[0])
	if errFrame != nil {
		return errFrame
	}
	idx := int(idx64)
	if idx != 0 {
		return resp.NewError("ERR DB index out of range")
	}
	sess.DBIndex = 0
	return resp.NewSimpleString("OK")
}

func cmdInfo(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var b strings.Builder
	fmt.Fprintf(&b, "# Server\r\n")
	fmt.Fprintf(&b, "redis_version:%s\r\n", d.info.Version)
	fmt.Fprintf(&b, "os:%s %s\r\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "process_id:%d\r\n", os.Getpid())
	fmt.Fprintf(&b, "tcp_port:%d\r\n", d.info.Port)
	fmt.Fprintf(&b, "uptime_in_seconds:%d\r\n", common.UptimeSeconds())
	fmt.Fprintf(&b, "# Keyspace\r\n")
	fmt.Fprintf(&b, "db0:keys=%d\r\n", d.store.Count())
	return resp.NewBulk([]byte(b.String()))
}

func cmdDBSize(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return resp.NewInteger(int64(d.store.Count()))
}

func cmdFlushDB(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	d.store.FlushAll()
	return resp.NewSimpleString("OK")
}

func cmdType(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var k store.Kind
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v != nil {
			k = v.Kind
		}
	})
	return resp.NewSimpleString(k.String())
}

func cmdKeys(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	pattern := string(args[0])
	var items []*resp.Frame
	d.store.Keys(pattern, func(key string) {
		items = append(items, resp.NewBulk([]byte(key)))
	})
	return resp.NewArray(items...)
}

// cmdScan implements the single-shot SCAN variant spec.md §4.B allows:
// the cursor always starts and ends at 0, returning every matching key
// in one step. MATCH uses glob patterns; COUNT is accepted but advisory
// (ignored, since there is nothing to page).
func cmdScan(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	cursor := string(args[0])
	if cursor != "0" {
		return resp.NewError("ERR invalid cursor")
	}

	pattern := "*"
	for i := 1; i < len(args); i++ {
		switch strings.ToUpper(string(args[i])) {
		case "MATCH":
			if i+1 >= len(args) {
				return errWrongArgs("SCAN")
			}
			pattern = string(args[i+1])
			i++
		case "COUNT":
			if i+1 >= len(args) {
				return errWrongArgs("SCAN")
			}
			i++
		default:
			return resp.NewError("ERR syntax error")
		}
	}

	var items []*resp.Frame
	d.store.Keys(pattern, func(key string) {
		items = append(items, resp.NewBulk([]byte(key)))
	})
	return resp.NewArray(resp.NewBulk([]byte("0")), resp.NewArray(items...))
}

// cmdCommand satisfies clients (redis-cli, most driver handshakes) that
// probe COMMAND on connect; the core does not implement introspection,
// so an empty array is the honest answer.
func cmdCommand(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return resp.NewArray()
}
