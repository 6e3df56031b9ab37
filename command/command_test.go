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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskdb/duskdb/resp"
	"github.com/duskdb/duskdb/store"
)

func newTestDispatcher() *Dispatcher {
	return New(store.New(16), InfoFields{Version: "test", Port: 6379})
}

func argv(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func TestPing(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}
	reply := d.Execute(sess, argv("PING"))
	assert.Equal(t, resp.NewSimpleString("PONG"), reply)
}

func TestSetGetRoundTrip(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	reply := d.Execute(sess, argv("SET", "k", "hello"))
	assert.Equal(t, resp.NewSimpleString("OK"), reply)

	reply = d.Execute(sess, argv("GET", "k"))
	assert.Equal(t, resp.NewBulk([]byte("hello")), reply)
}

func TestGetMissingKeyIsNullBulk(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}
	reply := d.Execute(sess, argv("GET", "nope"))
	assert.Equal(t, resp.NewNullBulk(), reply)
}

func TestWrongTypeOnListPushAfterSet(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	reply := d.Execute(sess, argv("SET", "k", "hello"))
	assert.Equal(t, resp.NewSimpleString("OK"), reply)

	reply = d.Execute(sess, argv("LPUSH", "k", "x"))
	require.Equal(t, resp.TypeError, reply.Type)
	assert.Contains(t, string(reply.Str), "WRONGTYPE")
}

func TestHSetHGetAll(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	reply := d.Execute(sess, argv("HSET", "u", "name", "Rahul", "age", "30"))
	assert.Equal(t, resp.NewInteger(2), reply)

	reply = d.Execute(sess, argv("HGETALL", "u"))
	require.Equal(t, resp.TypeArray, reply.Type)
	require.Len(t, reply.Array, 4)

	got := map[string]string{}
	for i := 0; i < len(reply.Array); i += 2 {
		got[string(reply.Array[i].Str)] = string(reply.Array[i+1].Str)
	}
	assert.Equal(t, map[string]string{"name": "Rahul", "age": "30"}, got)
}

func TestZAddUpdateAndRange(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("ZADD", "z", "1", "a")))
	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("ZADD", "z", "2", "b")))
	assert.Equal(t, resp.NewInteger(0), d.Execute(sess, argv("ZADD", "z", "1", "a")))

	reply := d.Execute(sess, argv("ZRANGE", "z", "0", "-1"))
	require.Equal(t, resp.TypeArray, reply.Type)
	require.Len(t, reply.Array, 2)
	assert.Equal(t, "a", string(reply.Array[0].Str))
	assert.Equal(t, "b", string(reply.Array[1].Str))
}

func TestLPushLRangeReverseOrder(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	for _, v := range []string{"v1", "v2", "v3"} {
		d.Execute(sess, argv("LPUSH", "k", v))
	}

	reply := d.Execute(sess, argv("LRANGE", "k", "0", "-1"))
	require.Equal(t, resp.TypeArray, reply.Type)
	require.Len(t, reply.Array, 3)
	assert.Equal(t, "v3", string(reply.Array[0].Str))
	assert.Equal(t, "v2", string(reply.Array[1].Str))
	assert.Equal(t, "v1", string(reply.Array[2].Str))
}

func TestScanEmptyDB(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	reply := d.Execute(sess, argv("SCAN", "0"))
	require.Equal(t, resp.TypeArray, reply.Type)
	require.Len(t, reply.Array, 2)
	assert.Equal(t, "0", string(reply.Array[0].Str))
	assert.Equal(t, resp.TypeArray, reply.Array[1].Type)
	assert.Len(t, reply.Array[1].Array, 0)
}

func TestDelExists(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	d.Execute(sess, argv("SET", "k", "v"))
	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("EXISTS", "k")))
	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("DEL", "k")))
	assert.Equal(t, resp.NewInteger(0), d.Execute(sess, argv("EXISTS", "k")))
	assert.Equal(t, resp.NewInteger(0), d.Execute(sess, argv("DEL", "k")))
}

func TestUnknownCommand(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	reply := d.Execute(sess, argv("BOGUS"))
	require.Equal(t, resp.TypeError, reply.Type)
	assert.Contains(t, string(reply.Str), "unknown command")
}

func TestWrongArity(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	reply := d.Execute(sess, argv("GET"))
	require.Equal(t, resp.TypeError, reply.Type)
	assert.Contains(t, string(reply.Str), "wrong number of arguments")
}

func TestSelectNonZeroRejected(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	assert.Equal(t, resp.NewSimpleString("OK"), d.Execute(sess, argv("SELECT", "0")))

	reply := d.Execute(sess, argv("SELECT", "1"))
	require.Equal(t, resp.TypeError, reply.Type)
	assert.Contains(t, string(reply.Str), "out of range")
}

func TestExpireAndTTL(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	d.Execute(sess, argv("SET", "k", "v"))
	assert.Equal(t, resp.NewInteger(-1), d.Execute(sess, argv("TTL", "k")))
	assert.Equal(t, resp.NewInteger(-2), d.Execute(sess, argv("TTL", "absent")))

	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("EXPIRE", "k", "100")))
	ttl := d.Execute(sess, argv("TTL", "k"))
	require.Equal(t, resp.TypeInteger, ttl.Type)
	assert.True(t, ttl.Int > 0 && ttl.Int <= 100)

	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("PERSIST", "k")))
	assert.Equal(t, resp.NewInteger(-1), d.Execute(sess, argv("TTL", "k")))
}

func TestSetWithExpireOptions(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	assert.Equal(t, resp.NewSimpleString("OK"), d.Execute(sess, argv("SET", "k", "v", "EX", "100")))
	ttl := d.Execute(sess, argv("TTL", "k"))
	require.Equal(t, resp.TypeInteger, ttl.Type)
	assert.True(t, ttl.Int > 0 && ttl.Int <= 100)

	assert.Equal(t, resp.NewSimpleString("OK"), d.Execute(sess, argv("SET", "k", "v2", "PX", "100000")))
	pttl := d.Execute(sess, argv("PTTL", "k"))
	require.Equal(t, resp.TypeInteger, pttl.Type)
	assert.True(t, pttl.Int > 0 && pttl.Int <= 100000)

	assert.Equal(t, resp.NewNullBulk(), d.Execute(sess, argv("SET", "k", "v3", "NX")))
	assert.Equal(t, resp.NewSimpleString("OK"), d.Execute(sess, argv("SET", "k", "v4", "XX")))
	assert.Equal(t, resp.NewNullBulk(), d.Execute(sess, argv("SET", "missing", "v", "XX")))
}

func TestIncrDecr(t *testing.T) {
	d := newTestDispatcher()
	sess := &Session{}

	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("INCR", "counter")))
	assert.Equal(t, resp.NewInteger(2), d.Execute(sess, argv("INCR", "counter")))
	assert.Equal(t, resp.NewInteger(1), d.Execute(sess, argv("DECR", "counter")))
	assert.Equal(t, resp.NewInteger(11), d.Execute(sess, argv("INCRBY", "counter", "10")))
}
