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

// Package store implements the sharded, polymorphic in-memory keyspace.
package store

import (
	"time"

	"github.com/pkg/errors"
)

// Kind tags which variant a Value currently holds.
type Kind byte

const (
	KindString Kind = iota + 1
	KindList
	KindHash
	KindSet
	KindZSet
	KindJSON
)

// String implements the RESP TYPE command's label for each kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindHash:
		return "hash"
	case KindSet:
		return "set"
	case KindZSet:
		return "zset"
	case KindJSON:
		return "ReJSON-RL"
	}
	return "none"
}

// ErrWrongType is returned whenever a command addresses a key whose
// stored Kind does not match what the command requires.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// Value is the tagged union every keyspace entry holds. Exactly one of
// the typed fields is meaningful, selected by Kind; the dispatcher never
// touches a field outside of its Kind.
type Value struct {
	Kind Kind

	Str  []byte
	List *List
	Hash map[string][]byte
	Set  map[string]struct{}
	ZSet *ZSet
	JSON any

	// ExpireAt is the absolute wall-clock deadline; zero means no TTL.
	ExpireAt time.Time
}

func newValue(k Kind) *Value {
	return &Value{Kind: k}
}

// Expired reports whether v's TTL has passed as of now.
func (v *Value) Expired(now time.Time) bool {
	return !v.ExpireAt.IsZero() && !now.Before(v.ExpireAt)
}

func (v *Value) TTL(now time.Time) time.Duration {
	if v.ExpireAt.IsZero() {
		return -1
	}
	d := v.ExpireAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// StringValue builds a Value holding a raw byte string.
func StringValue(b []byte) *Value {
	v := newValue(KindString)
	v.Str = b
	return v
}

// ListValue builds a Value holding an empty list.
func ListValue() *Value {
	v := newValue(KindList)
	v.List = NewList()
	return v
}

// HashValue builds a Value holding an empty hash.
func HashValue() *Value {
	v := newValue(KindHash)
	v.Hash = make(map[string][]byte)
	return v
}

// SetValue builds a Value holding an empty set.
func SetValue() *Value {
	v := newValue(KindSet)
	v.Set = make(map[string]struct{})
	return v
}

// ZSetValue builds a Value holding an empty sorted set.
func ZSetValue() *Value {
	v := newValue(KindZSet)
	v.ZSet = NewZSet()
	return v
}

// JSONValue builds a Value holding a parsed JSON document.
func JSONValue(doc any) *Value {
	v := newValue(KindJSON)
	v.JSON = doc
	return v
}
