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
	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

func (d *Dispatcher) registerHash() {
	d.register("HSET", -3, cmdHSet)
	d.register("HGET", 2, cmdHGet)
	d.register("HDEL", -2, cmdHDel)
	d.register("HLEN", 1, cmdHLen)
	d.register("HEXISTS", 2, cmdHExists)
	d.register("HKEYS", 1, cmdHKeys)
	d.register("HVALS", 1, cmdHVals)
	d.register("HGETALL", 1, cmdHGetAll)
}

func cmdHSet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	if len(args[1:])%2 != 0 {
		return errWrongArgs("HSET")
	}

	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			existing = store.HashValue()
			w.Set(existing)
		}

		var added int64
		for i := 1; i+1 < len(args); i += 2 {
			field, val := string(args[i]), args[i+1]
			if _, ok := existing.Hash[field]; !ok {
				added++
			}
			existing.Hash[field] = append([]byte(nil), val...)
		}
		reply = resp.NewInteger(added)
	})
	return reply
}

func cmdHGet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewNullBulk()
			return
		}
		if v.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		val, ok := v.Hash[string(args[1])]
		if !ok {
			reply = resp.NewNullBulk()
			return
		}
		reply = resp.NewBulk(val)
	})
	return reply
}

func cmdHDel(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing == nil {
			reply = resp.NewInteger(0)
			return
		}
		if existing.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}

		var removed int64
		for _, f := range args[1:] {
			field := string(f)
			if _, ok := existing.Hash[field]; ok {
				delete(existing.Hash, field)
				removed++
			}
		}
		if len(existing.Hash) == 0 {
			w.Delete()
		}
		reply = resp.NewInteger(removed)
	})
	return reply
}

func cmdHLen(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		reply = resp.NewInteger(int64(len(v.Hash)))
	})
	return reply
}

func cmdHExists(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		if _, ok := v.Hash[string(args[1])]; ok {
			reply = resp.NewInteger(1)
			return
		}
		reply = resp.NewInteger(0)
	})
	return reply
}

func cmdHKeys(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewArray()
			return
		}
		if v.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		items := make([]*resp.Frame, 0, len(v.Hash))
		for f := range v.Hash {
			items = append(items, resp.NewBulk([]byte(f)))
		}
		reply = resp.NewArray(items...)
	})
	return reply
}

func cmdHVals(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewArray()
			return
		}
		if v.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		items := make([]*resp.Frame, 0, len(v.Hash))
		for _, val := range v.Hash {
			items = append(items, resp.NewBulk(val))
		}
		reply = resp.NewArray(items...)
	})
	return reply
}

func cmdHGetAll(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewArray()
			return
		}
		if v.Kind != store.KindHash {
			reply = wrongTypeFrame()
			return
		}
		items := make([]*resp.Frame, 0, len(v.Hash)*2)
		for f, val := range v.Hash {
			items = append(items, resp.NewBulk([]byte(f)), resp.NewBulk(val))
		}
		reply = resp.NewArray(items...)
	})
	return reply
}
