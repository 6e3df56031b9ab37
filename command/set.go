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

func (d *Dispatcher) registerSet() {
	d.register("SADD", -2, cmdSAdd)
	d.register("SREM", -2, cmdSRem)
	d.register("SCARD", 1, cmdSCard)
	d.register("SISMEMBER", 2, cmdSIsMember)
	d.register("SMEMBERS", 1, cmdSMembers)
}

func cmdSAdd(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindSet {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			existing = store.SetValue()
			w.Set(existing)
		}

		var added int64
		for _, m := range args[1:] {
			member := string(m)
			if _, ok := existing.Set[member]; !ok {
				existing.Set[member] = struct{}{}
				added++
			}
		}
		reply = resp.NewInteger(added)
	})
	return reply
}

func cmdSRem(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing == nil {
			reply = resp.NewInteger(0)
			return
		}
		if existing.Kind != store.KindSet {
			reply = wrongTypeFrame()
			return
		}

		var removed int64
		for _, m := range args[1:] {
			member := string(m)
			if _, ok := existing.Set[member]; ok {
				delete(existing.Set, member)
				removed++
			}
		}
		if len(existing.Set) == 0 {
			w.Delete()
		}
		reply = resp.NewInteger(removed)
	})
	return reply
}

func cmdSCard(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindSet {
			reply = wrongTypeFrame()
			return
		}
		reply = resp.NewInteger(int64(len(v.Set)))
	})
	return reply
}

func cmdSIsMember(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindSet {
			reply = wrongTypeFrame()
			return
		}
		if _, ok := v.Set[string(args[1])]; ok {
			reply = resp.NewInteger(1)
			return
		}
		reply = resp.NewInteger(0)
	})
	return reply
}

func cmdSMembers(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewArray()
			return
		}
		if v.Kind != store.KindSet {
			reply = wrongTypeFrame()
			return
		}
		items := make([]*resp.Frame, 0, len(v.Set))
		for m := range v.Set {
			items = append(items, resp.NewBulk([]byte(m)))
		}
		reply = resp.NewArray(items...)
	})
	return reply
}
