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

// Package resp implements a streaming RESP2 frame codec: a parser that
// decodes frames off an arbitrarily-chunked byte stream, and a writer
// that serializes frames back onto the wire.
package resp

import "github.com/pkg/errors"

// Type is the RESP2 type tag, taken verbatim from the leading byte of a
// frame on the wire.
type Type byte

const (
	TypeSimpleString Type = '+'
	TypeError        Type = '-'
	TypeInteger      Type = ':'
	TypeBulk         Type = '$'
	TypeArray        Type = '*'
)

// Frame is a single decoded RESP2 value.
//
// Str holds the payload for SimpleString, Error and Bulk. Int holds the
// payload for Integer. Array holds the elements for Array. Null
// distinguishes the nil bulk ($-1) and nil array (*-1) from an empty
// bulk/array.
type Frame struct {
	Type  Type
	Str   []byte
	Int   int64
	Null  bool
	Array []*Frame
}

func NewSimpleString(s string) *Frame {
	return &Frame{Type: TypeSimpleString, Str: []byte(s)}
}

func NewError(s string) *Frame {
	return &Frame{Type: TypeError, Str: []byte(s)}
}

func NewInteger(n int64) *Frame {
	return &Frame{Type: TypeInteger, Int: n}
}

// NewBulk wraps b as a bulk string. A nil b produces a non-null empty
// bulk string — use NewNullBulk for the RESP null.
func NewBulk(b []byte) *Frame {
	if b == nil {
		b = []byte{}
	}
	return &Frame{Type: TypeBulk, Str: b}
}

func NewNullBulk() *Frame {
	return &Frame{Type: TypeBulk, Null: true}
}

// NewArray wraps items as an array. No items produce a non-null empty
// array — use NewNullArray for the RESP null.
func NewArray(items ...*Frame) *Frame {
	if items == nil {
		items = []*Frame{}
	}
	return &Frame{Type: TypeArray, Array: items}
}

func NewNullArray() *Frame {
	return &Frame{Type: TypeArray, Null: true}
}

// IsNull reports whether f is a null bulk or null array.
func (f *Frame) IsNull() bool {
	return f != nil && f.Null
}

// StringValues converts an Array of Bulk frames into command argument
// strings. Used by the dispatcher once a Frame has been classified as a
// command.
func (f *Frame) StringValues() ([][]byte, error) {
	if f == nil || f.Type != TypeArray {
		return nil, errors.New("resp: frame is not an array")
	}
	out := make([][]byte, 0, len(f.Array))
	for _, item := range f.Array {
		if item == nil || item.Type != TypeBulk || item.Null {
			return nil, errors.New("resp: array element is not a bulk string")
		}
		out = append(out, item.Str)
	}
	return out, nil
}
