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
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/duskdb/duskdb/common"
	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

func (d *Dispatcher) registerString() {
	d.register("SET", -2, cmdSet)
	d.register("GET", 1, cmdGet)
	d.register("GETSET", 2, cmdGetSet)
	d.register("DEL", -1, cmdDel)
	d.register("EXISTS", -1, cmdExists)
	d.register("APPEND", 2, cmdAppend)
	d.register("STRLEN", 1, cmdStrlen)
	d.register("INCR", 1, cmdIncr)
	d.register("DECR", 1, cmdDecr)
	d.register("INCRBY", 2, cmdIncrBy)
	d.register("DECRBY", 2, cmdDecrBy)
}

// setOptions is decoded from the SET command's keyword tail (EX/PX/NX/XX)
// via mapstructure, the way the teacher's config layer decodes loosely
// typed maps into structs. Ex/Px set Value.ExpireAt, which the EXPIRE/TTL
// family reports and the store enforces lazily (an expired key reads as
// absent); NX/XX gate whether SET proceeds at all.
type setOptions struct {
	EX int64 `mapstructure:"EX"`
	PX int64 `mapstructure:"PX"`
	NX bool  `mapstructure:"NX"`
	XX bool  `mapstructure:"XX"`
}

func parseSetOptions(args [][]byte) (setOptions, *resp.Frame) {
	raw := common.NewOptions()
	for i := 0; i < len(args); i++ {
		switch strings.ToUpper(string(args[i])) {
		case "EX":
			if i+1 >= len(args) {
				return setOptions{}, errWrongArgs("SET")
			}
			raw.Merge("EX", string(args[i+1]))
			i++
		case "PX":
			if i+1 >= len(args) {
				return setOptions{}, errWrongArgs("SET")
			}
			raw.Merge("PX", string(args[i+1]))
			i++
		case "NX":
			raw.Merge("NX", true)
		case "XX":
			raw.Merge("XX", true)
		default:
			return setOptions{}, resp.NewError("ERR syntax error")
		}
	}

	var opts setOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return setOptions{}, errNotInt()
	}
	if err := decoder.Decode(map[string]any(raw)); err != nil {
		return setOptions{}, errNotInt()
	}
	return opts, nil
}

func cmdSet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	key, val := string(args[0]), args[1]
	opts, errFrame := parseSetOptions(args[2:])
	if errFrame != nil {
		return errFrame
	}

	var reply *resp.Frame
	d.store.WithWrite(key, func(w *store.WriteView) {
		existing := w.Get()
		if opts.NX && existing != nil {
			reply = resp.NewNullBulk()
			return
		}
		if opts.XX && existing == nil {
			reply = resp.NewNullBulk()
			return
		}

		v := store.StringValue(append([]byte(nil), val...))
		if opts.EX > 0 {
			v.ExpireAt = nowFunc().Add(secondsToDuration(opts.EX))
		} else if opts.PX > 0 {
			v.ExpireAt = nowFunc().Add(millisToDuration(opts.PX))
		}
		w.Set(v)
		reply = resp.NewSimpleString("OK")
	})
	return reply
}

func cmdGet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewNullBulk()
			return
		}
		if v.Kind != store.KindString {
			reply = wrongTypeFrame()
			return
		}
		reply = resp.NewBulk(v.Str)
	})
	return reply
}

func cmdGetSet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	key, val := string(args[0]), args[1]
	var reply *resp.Frame
	d.store.WithWrite(key, func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindString {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			reply = resp.NewNullBulk()
		} else {
			reply = resp.NewBulk(existing.Str)
		}
		w.Set(store.StringValue(append([]byte(nil), val...)))
	})
	return reply
}

func cmdDel(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var count int64
	for _, k := range args {
		d.store.WithWrite(string(k), func(w *store.WriteView) {
			if w.Get() != nil {
				w.Delete()
				count++
			}
		})
	}
	return resp.NewInteger(count)
}

func cmdExists(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var count int64
	for _, k := range args {
		d.store.WithRead(string(k), func(v *store.Value) {
			if v != nil {
				count++
			}
		})
	}
	return resp.NewInteger(count)
}

func cmdAppend(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	key, suffix := string(args[0]), args[1]
	var reply *resp.Frame
	d.store.WithWrite(key, func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindString {
			reply = wrongTypeFrame()
			return
		}
		if existing == nil {
			v := store.StringValue(append([]byte(nil), suffix...))
			w.Set(v)
			reply = resp.NewInteger(int64(len(v.Str)))
			return
		}
		existing.Str = append(existing.Str, suffix...)
		reply = resp.NewInteger(int64(len(existing.Str)))
	})
	return reply
}

func cmdStrlen(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewInteger(0)
			return
		}
		if v.Kind != store.KindString {
			reply = wrongTypeFrame()
			return
		}
		reply = resp.NewInteger(int64(len(v.Str)))
	})
	return reply
}

func cmdIncr(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return incrBy(d, string(args[0]), 1)
}

func cmdDecr(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	return incrBy(d, string(args[0]), -1)
}

func cmdIncrBy(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	delta, errFrame := parseIntArg(args[1])
	if errFrame != nil {
		return errFrame
	}
	return incrBy(d, string(args[0]), delta)
}

func cmdDecrBy(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	delta, errFrame := parseIntArg(args[1])
	if errFrame != nil {
		return errFrame
	}
	return incrBy(d, string(args[0]), -delta)
}

func incrBy(d *Dispatcher, key string, delta int64) *resp.Frame {
	var reply *resp.Frame
	d.store.WithWrite(key, func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindString {
			reply = wrongTypeFrame()
			return
		}

		var cur int64
		if existing != nil {
			var err error
			cur, err = strconv.ParseInt(string(existing.Str), 10, 64)
			if err != nil {
				reply = errNotInt()
				return
			}
		}

		next := cur + delta
		v := store.StringValue([]byte(strconv.FormatInt(next, 10)))
		w.Set(v)
		reply = resp.NewInteger(next)
	})
	return reply
}
