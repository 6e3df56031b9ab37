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
	"github.com/goccy/go-json"

	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

// isRootPath reports whether a JSONPath argument names the document
// root. Only root-path access is required (spec.md §4.B); nested
// JSONPath is explicitly out of scope.
func isRootPath(p string) bool {
	return p == "$" || p == "." || p == ""
}

func (d *Dispatcher) registerJSON() {
	d.register("JSON.SET", -3, cmdJSONSet)
	d.register("JSON.GET", -1, cmdJSONGet)
	d.register("JSON.DEL", -1, cmdJSONDel)
}

func cmdJSONSet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	path := string(args[1])
	if !isRootPath(path) {
		return resp.NewError("ERR only the root path ($ or .) is supported")
	}

	var doc any
	if err := json.Unmarshal(args[2], &doc); err != nil {
		return resp.NewError("ERR invalid JSON: " + err.Error())
	}

	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		existing := w.Get()
		if existing != nil && existing.Kind != store.KindJSON {
			reply = wrongTypeFrame()
			return
		}
		w.Set(store.JSONValue(doc))
		reply = resp.NewSimpleString("OK")
	})
	return reply
}

func cmdJSONGet(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	if len(args) >= 2 && !isRootPath(string(args[1])) {
		return resp.NewError("ERR only the root path ($ or .) is supported")
	}

	var reply *resp.Frame
	d.store.WithRead(string(args[0]), func(v *store.Value) {
		if v == nil {
			reply = resp.NewNullBulk()
			return
		}
		if v.Kind != store.KindJSON {
			reply = wrongTypeFrame()
			return
		}
		b, err := json.Marshal(v.JSON)
		if err != nil {
			reply = resp.NewError("ERR failed to encode document")
			return
		}
		reply = resp.NewBulk(b)
	})
	return reply
}

func cmdJSONDel(d *Dispatcher, sess *Session, args [][]byte) *resp.Frame {
	if len(args) >= 2 && !isRootPath(string(args[1])) {
		return resp.NewError("ERR only the root path ($ or .) is supported")
	}

	var reply *resp.Frame
	d.store.WithWrite(string(args[0]), func(w *store.WriteView) {
		if w.Get() == nil {
			reply = resp.NewInteger(0)
			return
		}
		w.Delete()
		reply = resp.NewInteger(1)
	})
	return reply
}
