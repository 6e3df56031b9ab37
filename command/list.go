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

func (d *Dispatcher) registerList() {
	d.register("LPUSH", -2, cmdLPush)
	d.register("RPUSH", -2, cmdRPush)
	d.register("LPOP", -1, cmdLPop)
	d.register("RPOP", -1, cmdRPop)
	d.register("LLEN", 1, cmdLLen)
	d.register("LINDEX", 2, cmdLIndex)
	d.register("LRANGE", 3, cmdLRange)
}

func cmdLPush(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return listPush(d, string(args[0]), args[1:], true)
}

func cmdRPush(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return listPush(d, string(args[0]), args[1:], false)
}

func listPush(d *Dispatcher, key string, values [][]byte, left bool) *resp.Frame {
	var reply *resp.Frame
	d.store.WithWrite(key, func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindList {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			existing = store.ListValue()
			w.Set(existing)
		}
		for _, v := range values {
			buf := append([]byte(nil), v...)
			if left {
				existing.List.PushLeft(buf)
			} else {
				existing.List.PushRight(buf)
			}
		}
		reply = resp.NewInteger(int64(existing.List.Len()))
	})
	return reply
}

// popCount parses LPOP/RPOP's optional trailing count argument.
func popCount(args [][]byte) (int, *resp.Frame) {
	if len(args) == 0 {
		return 1, nil
	}
	n, errFrame := parseIntArg(args[0])
	if errFrame != nil || n < 0 {
		return 0, errNotInt()
	}
	return int(n), nil
}

func cmdLPop(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return listPop(d, string(args[0]), args[1:], true)
}

func cmdRPop(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return listPop(d, string(args[0]), args[1:], false)
}

func listPop(d *Dispatcher, key string, rest [][]byte, left bool) *resp.Frame {
	explicitCount := len(rest) > 0
	n, errFrame := popCount(rest)
	if errFrame != nil {
		return errFrame
	}

	var reply *resp.Frame
	d.store.WithWrite(key, func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindList {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			if explicitCount {
				reply = resp.NewNullArray()
			} else {
				reply = resp.NewNullBulk()
			}
			return
		}

		var popped [][]byte
		for i := 0; i < n || (!explicitCount && i < 1); i++ {
			var v []byte
			var ok bool
			if left {
				v, ok = existing.List.PopLeft()
			} else {
				v, ok = existing.List.PopRight()
			}
			if !ok {
				break
			}
			popped = append(popped, v)
		}
		if existing.List.Len() == 0 {
			w.Delete()
		}

		if !explicitCount {
			if len(popped) == 0 {
				reply = resp.NewNullBulk()
				return
			}
			reply = resp.NewBulk(popped[0])
			return
		}
		if len(popped) == 0 {
			reply = resp.NewNullArray()
			return
		}
		items := make([]*resp.Frame, len(popped))
		for i, v := range popped {
			items[i] = resp.NewBulk(v)
		}
		reply = resp.NewArray(items...)
	})
	return reply
}

func cmdLLen(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindList {
			reply = wrongTypeFrame()
			return
		}
		reply = resp.NewInteger(int64(v.List.Len()))
	})
	return reply
}

func cmdLIndex(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	idx64, errFrame := parseIntArg(args[1])
	if errFrame != nil {
		return errFrame
	}
	idx := int(idx64)

	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewNullBulk()
			return
		}
		if v.Kind != store.KindList {
			reply = wrongTypeFrame()
			return
		}
		n := v.List.Len()
		if idx < 0 {
			idx += n
		}
		val, ok := v.List.Index(idx)
		if !ok {
			reply = resp.NewNullBulk()
			return
		}
		reply = resp.NewBulk(val)
	})
	return reply
}

// normalizeRange applies spec.md §4.B's LRANGE/ZRANGE index rules:
// negative indices count from the tail, stop is clamped to len-1, and
// start > stop (after normalization) yields an empty range.
func normalizeRange(start, stop, n int) (int, int, bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n || n == 0 {
		return 0, 0, false
	}
	return start, stop, true
}

func cmdLRange(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	start64, errFrame := parseIntArg(args[1])
	if errFrame != nil {
		return errFrame
	}
	stop64, errFrame := parseIntArg(args[2])
	if errFrame != nil {
		return errFrame
	}
	start, stop := int(start64), int(stop64)

	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewArray()
			return
		}
		if v.Kind != store.KindList {
			reply = wrongTypeFrame()
			return
		}
		s, e, ok := normalizeRange(start, stop, v.List.Len())
		if !ok {
			reply = resp.NewArray()
			return
		}
		values := v.List.Range(s, e)
		items := make([]*resp.Frame, len(values))
		for i, val := range values {
			items[i] = resp.NewBulk(val)
		}
		reply = resp.NewArray(items...)
	})
	return reply
}
