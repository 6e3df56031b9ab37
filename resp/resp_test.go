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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserCompleteFrames(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *Frame
	}{
		{
			name: "simple string",
			in:   "+OK\r\n",
			want: NewSimpleString("OK"),
		},
		{
			name: "error",
			in:   "-ERR wrong number of arguments\r\n",
			want: NewError("ERR wrong number of arguments"),
		},
		{
			name: "integer",
			in:   ":1000\r\n",
			want: NewInteger(1000),
		},
		{
			name: "negative integer",
			in:   ":-1\r\n",
			want: NewInteger(-1),
		},
		{
			name: "bulk string",
			in:   "$6\r\nfoobar\r\n",
			want: NewBulk([]byte("foobar")),
		},
		{
			name: "empty bulk string",
			in:   "$0\r\n\r\n",
			want: NewBulk([]byte{}),
		},
		{
			name: "null bulk string",
			in:   "$-1\r\n",
			want: NewNullBulk(),
		},
		{
			name: "command array",
			in:   "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n",
			want: NewArray(NewBulk([]byte("GET")), NewBulk([]byte("foo"))),
		},
		{
			name: "nested array",
			in:   "*2\r\n*1\r\n:1\r\n$3\r\nfoo\r\n",
			want: NewArray(NewArray(NewInteger(1)), NewBulk([]byte("foo"))),
		},
		{
			name: "null array",
			in:   "*-1\r\n",
			want: NewNullArray(),
		},
		{
			name: "empty array",
			in:   "*0\r\n",
			want: NewArray(),
		},
		{
			name: "inline command",
			in:   "PING\r\n",
			want: NewArray(NewBulk([]byte("PING"))),
		},
		{
			name: "inline command with args",
			in:   "SET foo bar\r\n",
			want: NewArray(NewBulk([]byte("SET")), NewBulk([]byte("foo")), NewBulk([]byte("bar"))),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser()
			p.Feed([]byte(tc.in))

			f, outcome, err := p.Next()
			require.NoError(t, err)
			require.Equal(t, Complete, outcome)
			assert.Equal(t, tc.want, f)
			assert.Equal(t, 0, p.Buffered())
		})
	}
}

// TestParserByteAtATime feeds the input to the parser one byte at a
// time, verifying that Next reports Incomplete until the final byte
// arrives and that no partial state leaks across Feed calls.
func TestParserByteAtATime(t *testing.T) {
	in := []byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
	p := NewParser()

	var got *Frame
	for i, b := range in {
		p.Feed([]byte{b})
		f, outcome, err := p.Next()
		require.NoError(t, err)
		if i < len(in)-1 {
			assert.Equal(t, Incomplete, outcome, "byte %d", i)
			assert.Nil(t, f)
			continue
		}
		require.Equal(t, Complete, outcome)
		got = f
	}

	want := NewArray(NewBulk([]byte("SET")), NewBulk([]byte("foo")), NewBulk([]byte("bar")))
	assert.Equal(t, want, got)
}

// TestParserPipelinedCommands verifies that two commands arriving back
// to back in a single Feed are each returned by a separate Next call,
// and the second command's bytes are left untouched until requested.
func TestParserPipelinedCommands(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n"))

	f1, outcome, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, Complete, outcome)
	assert.Equal(t, NewArray(NewBulk([]byte("PING"))), f1)
	assert.True(t, p.Buffered() > 0)

	f2, outcome, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, Complete, outcome)
	assert.Equal(t, NewArray(NewBulk([]byte("PING"))), f2)
	assert.Equal(t, 0, p.Buffered())
}

func TestParserMalformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{name: "bad length prefix", in: "$abc\r\n"},
		{name: "bulk missing trailing crlf", in: "$3\r\nfooXX"},
		{name: "array with invalid element", in: "*1\r\n?\r\n"},
		{name: "bulk length too large", in: "$99999999999\r\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser()
			p.Feed([]byte(tc.in))
			_, outcome, err := p.Next()
			assert.Equal(t, Malformed, outcome)
			assert.Error(t, err)
		})
	}
}

func TestParserBlankInlineSkipped(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("\r\n\r\nPING\r\n"))

	f, outcome, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, Complete, outcome)
	assert.Equal(t, NewArray(NewBulk([]byte("PING"))), f)
}

func TestWriterRoundTrip(t *testing.T) {
	cases := []*Frame{
		NewSimpleString("OK"),
		NewError("ERR boom"),
		NewInteger(42),
		NewInteger(-7),
		NewBulk([]byte("hello")),
		NewBulk([]byte{}),
		NewNullBulk(),
		NewArray(NewBulk([]byte("a")), NewInteger(1)),
		NewNullArray(),
	}

	for _, f := range cases {
		out := Marshal(f)

		p := NewParser()
		p.Feed(out)
		got, outcome, err := p.Next()
		require.NoError(t, err)
		require.Equal(t, Complete, outcome)
		assert.Equal(t, f, got)
	}
}

func TestFrameStringValues(t *testing.T) {
	f := NewArray(NewBulk([]byte("SET")), NewBulk([]byte("k")), NewBulk([]byte("v")))
	values, err := f.StringValues()
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, "SET", string(values[0]))
	assert.Equal(t, "k", string(values[1]))
	assert.Equal(t, "v", string(values[2]))

	_, err = f.StringValues()
	assert.NoError(t, err)

	bad := NewArray(NewInteger(1))
	_, err = bad.StringValues()
	assert.Error(t, err)
}
