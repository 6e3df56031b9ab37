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

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	s := New(16)

	s.WithWrite("k", func(w *WriteView) {
		w.Set(StringValue([]byte("hello")))
	})

	var got *Value
	s.WithRead("k", func(v *Value) { got = v })
	require.NotNil(t, got)
	assert.Equal(t, KindString, got.Kind)
	assert.Equal(t, "hello", string(got.Str))
}

func TestStoreMissingKeyReadsNil(t *testing.T) {
	s := New(16)
	var got *Value
	s.WithRead("absent", func(v *Value) { got = v })
	assert.Nil(t, got)
}

func TestStoreExpiredKeyReadsAbsent(t *testing.T) {
	s := New(1)
	s.WithWrite("k", func(w *WriteView) {
		v := StringValue([]byte("v"))
		v.ExpireAt = time.Now().Add(-time.Second)
		w.Set(v)
	})

	var got *Value
	s.WithRead("k", func(v *Value) { got = v })
	assert.Nil(t, got, "expired key must read as absent")

	assert.Equal(t, 0, s.Count())
}

func TestStoreCountAcrossShards(t *testing.T) {
	s := New(64)
	for i := 0; i < 100; i++ {
		key := string(rune('a' + i%26))
		s.WithWrite(key, func(w *WriteView) {
			w.Set(StringValue([]byte("x")))
		})
	}
	assert.Equal(t, 26, s.Count())
}

func TestStoreFlushAll(t *testing.T) {
	s := New(8)
	s.WithWrite("a", func(w *WriteView) { w.Set(StringValue([]byte("1"))) })
	s.WithWrite("b", func(w *WriteView) { w.Set(StringValue([]byte("2"))) })
	require.Equal(t, 2, s.Count())

	s.FlushAll()
	assert.Equal(t, 0, s.Count())
}

func TestStoreKeysGlob(t *testing.T) {
	s := New(16)
	for _, k := range []string{"user:1", "user:2", "order:1"} {
		key := k
		s.WithWrite(key, func(w *WriteView) { w.Set(StringValue([]byte("v"))) })
	}

	var matched []string
	s.Keys("user:*", func(k string) { matched = append(matched, k) })
	assert.ElementsMatch(t, []string{"user:1", "user:2"}, matched)
}

func TestStoreWriteViewDelete(t *testing.T) {
	s := New(16)
	s.WithWrite("k", func(w *WriteView) { w.Set(StringValue([]byte("v"))) })
	s.WithWrite("k", func(w *WriteView) { w.Delete() })

	var got *Value
	s.WithRead("k", func(v *Value) { got = v })
	assert.Nil(t, got)
}

func TestListPushPopOrder(t *testing.T) {
	l := NewList()
	for _, v := range []string{"a", "b", "c"} {
		l.PushLeft([]byte(v))
	}
	// LPUSH a, then b, then c -> list is [c, b, a]
	require.Equal(t, 3, l.Len())
	v, ok := l.Index(0)
	require.True(t, ok)
	assert.Equal(t, "c", string(v))

	got := l.Range(0, -1+l.Len()) // emulate LRANGE 0 -1 normalized to len-1
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, toStrings(got))
}

func TestListRingGrowth(t *testing.T) {
	l := NewList()
	for i := 0; i < 1000; i++ {
		l.PushRight([]byte{byte(i % 256)})
	}
	assert.Equal(t, 1000, l.Len())
	for i := 0; i < 1000; i++ {
		v, ok := l.Index(i)
		require.True(t, ok)
		assert.Equal(t, byte(i%256), v[0])
	}
}

func TestListPopBothEnds(t *testing.T) {
	l := NewList()
	l.PushRight([]byte("a"))
	l.PushRight([]byte("b"))
	l.PushRight([]byte("c"))

	v, ok := l.PopLeft()
	require.True(t, ok)
	assert.Equal(t, "a", string(v))

	v, ok = l.PopRight()
	require.True(t, ok)
	assert.Equal(t, "c", string(v))

	assert.Equal(t, 1, l.Len())

	_, ok = l.PopLeft()
	require.True(t, ok)
	_, ok = l.PopLeft()
	assert.False(t, ok)
}

func toStrings(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func TestZSetAddUpdateRank(t *testing.T) {
	z := NewZSet()
	assert.True(t, z.Add("a", 1))
	assert.True(t, z.Add("b", 2))
	assert.False(t, z.Add("a", 1)) // no-op update, same score

	assert.Equal(t, 2, z.Card())

	score, ok := z.Score("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)

	rank, ok := z.Rank("b")
	require.True(t, ok)
	assert.Equal(t, 1, rank)
}

func TestZSetRangeOrdering(t *testing.T) {
	z := NewZSet()
	z.Add("b", 2)
	z.Add("a", 1)
	z.Add("c", 1) // ties broken lexicographically

	members := z.Range(0, -1+z.Card())
	require.Len(t, members, 3)
	assert.Equal(t, "a", members[0].Member)
	assert.Equal(t, "c", members[1].Member)
	assert.Equal(t, "b", members[2].Member)
}

func TestZSetRemove(t *testing.T) {
	z := NewZSet()
	z.Add("a", 1)
	assert.True(t, z.Remove("a"))
	assert.False(t, z.Remove("a"))
	assert.Equal(t, 0, z.Card())
}
