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
	"strconv"

	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

func (d *Dispatcher) registerZSet() {
	d.register("ZADD", -3, cmdZAdd)
	d.register("ZSCORE", 2, cmdZScore)
	d.register("ZCARD", 1, cmdZCard)
	d.register("ZRANK", 2, cmdZRank)
	d.register("ZREM", -2, cmdZRem)
	d.register("ZRANGE", 3, cmdZRange)
}

func cmdZAdd(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	if len(args[1:])%2 != 0 {
		return errWrongArgs("ZADD")
	}

	type pair struct {
		score  float64
		member string
	}
	pairs := make([]pair, 0, len(args[1:])/2)
	for i := 1; i+1 < len(args); i += 2 {
		score, errFrame := parseFloatArg(args[i])
		if errFrame != nil {
			return errFrame
		}
		pairs = append(pairs, pair{score: score, member: string(args[i+1])})
	}

	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindZSet {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			existing = store.ZSetValue()
			w.Set(existing)
		}

		var added int64
		for _, p := range pairs {
			if existing.ZSet.Add(p.member, p.score) {
				added++
			}
		}
		reply = resp.NewInteger(added)
	})
	return reply
}

func cmdZScore(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewNullBulk()
			return
		}
		if v.Kind != store.KindZSet {
			reply = wrongTypeFrame()
			return
		}
		score, ok := v.ZSet.Score(string(args[1]))
		if !ok {
			reply = resp.NewNullBulk()
			return
		}
		reply = resp.NewBulk([]byte(formatScore(score)))
	})
	return reply
}

func cmdZCard(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindZSet {
			reply = wrongTypeFrame()
			return
		}
		reply = resp.NewInteger(int64(v.ZSet.Card()))
	})
	return reply
}

func cmdZRank(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewNullBulk()
			return
		}
		if v.Kind != store.KindZSet {
			reply = wrongTypeFrame()
			return
		}
		rank, ok := v.ZSet.Rank(string(args[1]))
		if !ok {
			reply = resp.NewNullBulk()
			return
		}
		reply = resp.NewInteger(int64(rank))
	})
	return reply
}

func cmdZRem(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing == nil {
			reply = resp.NewInteger(0)
			return
		}
		if existing.Kind != store.KindZSet {
			reply = wrongTypeFrame()
			return
		}

		var removed int64
		for _, m := range args[1:] {
			if existing.ZSet.Remove(string(m)) {
				removed++
			}
		}
		if existing.ZSet.Card() == 0 {
			w.Delete()
		}
		reply = resp.NewInteger(removed)
	})
	return reply
}

func cmdZRange(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
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
		if v.Kind != store.KindZSet {
			reply = wrongTypeFrame()
			return
		}
		s, e, ok := normalizeRange(start, stop, v.ZSet.Card())
		if !ok {
			reply = resp.NewArray()
			return
		}
		members := v.ZSet.Range(s, e)
		items := make([]*resp.Frame, len(members))
		for i, m := range members {
			items[i] = resp.NewBulk([]byte(m.Member))
		}
		reply = resp.NewArray(items...)
	})
	return reply
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
