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

package resp

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// WriteTo serializes f onto buf using the wire encoding for its Type.
// buf is a pooled bytebufferpool.ByteBuffer so a connection's pipeline
// loop can accumulate an entire batch of replies before a single Write
// syscall flushes them.
func WriteTo(buf *bytebufferpool.ByteBuffer, f *Frame) {
	if f == nil {
		writeNullBulk(buf)
		return
	}

	switch f.Type {
	case TypeSimpleString:
		buf.WriteByte(byte(TypeSimpleString))
		buf.Write(f.Str)
		buf.WriteString("\r\n")

	case TypeError:
		buf.WriteByte(byte(TypeError))
		buf.Write(f.Str)
		buf.WriteString("\r\n")

	case TypeInteger:
		buf.WriteByte(byte(TypeInteger))
		buf.WriteString(strconv.FormatInt(f.Int, 10))
		buf.WriteString("\r\n")

	case TypeBulk:
		if f.Null {
			writeNullBulk(buf)
			return
		}
		buf.WriteByte(byte(TypeBulk))
		buf.WriteString(strconv.Itoa(len(f.Str)))
		buf.WriteString("\r\n")
		buf.Write(f.Str)
		buf.WriteString("\r\n")

	case TypeArray:
		if f.Null {
			writeNullArray(buf)
			return
		}
		buf.WriteByte(byte(TypeArray))
		buf.WriteString(strconv.Itoa(len(f.Array)))
		buf.WriteString("\r\n")
		for _, item := range f.Array {
			WriteTo(buf, item)
		}
	}
}

func writeNullBulk(buf *bytebufferpool.ByteBuffer) {
	buf.WriteString("$-1\r\n")
}

func writeNullArray(buf *bytebufferpool.ByteBuffer) {
	buf.WriteString("*-1\r\n")
}

// Marshal serializes f into a freshly allocated byte slice. Used by
// tests and call sites that do not hold a pooled buffer.
func Marshal(f *Frame) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	WriteTo(buf, f)
	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out
}
