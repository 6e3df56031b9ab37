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
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// Outcome classifies the result of a single Parser.Next call.
type Outcome int

const (
	// Incomplete means the buffered bytes do not yet contain a full
	// frame; Parser retains them and waits for more input via Feed.
	Incomplete Outcome = iota
	// Complete means a frame was fully decoded and consumed.
	Complete
	// Malformed means the buffered bytes can never form a valid frame;
	// the connection should be closed.
	Malformed
)

const (
	maxInlineLength = 64 * 1024
	maxBulkLength   = 512 * 1024 * 1024 // matches Redis's 512MB bulk string ceiling
	maxArrayLength  = 1024 * 1024
)

var (
	errIncomplete     = errors.New("resp: incomplete")
	errMalformedN     = errors.New("resp: invalid length prefix")
	errBulkTooLarge   = errors.New("resp: bulk string exceeds maximum length")
	errArrayTooLarge  = errors.New("resp: array exceeds maximum length")
	errInlineTooLarge = errors.New("resp: inline command exceeds maximum length")
)

// Parser is a streaming RESP2 decoder. It owns an append-only byte
// buffer: Feed appends bytes arriving off the wire, and Next attempts to
// decode one frame at a time from the front of that buffer.
//
// Parser does not mutate its buffer speculatively — a Next call that
// returns Incomplete consumes no byte of a partial frame (only leading
// blank inline lines are dropped), so the caller
// may Feed more bytes and retry without losing state. This mirrors the
// stack/register resumption used by the sniffer's RESP decoder, but
// since a Parser here owns its own buffer (rather than re-entering a
// shared splitio.Reader mid-stream) a full re-parse from the front is
// simpler and just as correct.
type Parser struct {
	buf []byte
}

// NewParser returns an empty Parser ready for Feed.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends a copy of b to the parser's pending buffer, so the caller
// may reuse b's backing array as soon as Feed returns.
func (p *Parser) Feed(b []byte) {
	p.buf = append(p.buf, b...)
}

// Buffered reports how many unconsumed bytes the parser currently holds.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// Next attempts to decode a single frame from the front of the buffer.
// On Complete, the decoded bytes are dropped from the buffer. On
// Incomplete, the bytes of the partial frame stay buffered; blank inline
// lines ahead of it are dropped. On Malformed, err explains why;
// the caller should close the connection since the stream can no longer
// be trusted.
func (p *Parser) Next() (*Frame, Outcome, error) {
	if len(p.buf) == 0 {
		return nil, Incomplete, nil
	}

	for {
		f, n, err := parseFrame(p.buf)
		if err != nil {
			if errors.Is(err, errIncomplete) {
				return nil, Incomplete, nil
			}
			return nil, Malformed, err
		}
		p.buf = p.buf[n:]

		// A blank inline line carries no frame; Redis clients send these
		// as idle keepalives. Skip it and keep looking for real input.
		if f == nil {
			if len(p.buf) == 0 {
				return nil, Incomplete, nil
			}
			continue
		}
		return f, Complete, nil
	}
}

// parseFrame decodes exactly one frame starting at buf[0], returning the
// frame and the number of bytes it consumed. A leading byte outside the
// five RESP type tags is treated as an inline command per the classic
// Redis inline protocol.
func parseFrame(buf []byte) (*Frame, int, error) {
	switch Type(buf[0]) {
	case TypeArray, TypeBulk, TypeSimpleString, TypeError, TypeInteger:
		return parseElement(buf)
	default:
		return parseInline(buf)
	}
}

// parseElement decodes one typed RESP value (no inline fallback). Array
// elements are always typed values per the protocol, so parseArray
// calls this directly rather than parseFrame.
func parseElement(buf []byte) (*Frame, int, error) {
	if len(buf) == 0 {
		return nil, 0, errIncomplete
	}
	switch Type(buf[0]) {
	case TypeArray:
		return parseArray(buf)
	case TypeBulk:
		return parseBulk(buf)
	case TypeSimpleString, TypeError, TypeInteger:
		return parseLineFrame(buf)
	default:
		return nil, 0, errInvalidBytes
	}
}

// readLine returns the line preceding the next CRLF (exclusive) and the
// number of bytes consumed including the CRLF. errIncomplete if no CRLF
// is present yet.
func readLine(buf []byte) (line []byte, consumed int, err error) {
	idx := bytes.Index(buf, []byte("\r\n"))
	if idx < 0 {
		return nil, 0, errIncomplete
	}
	return buf[:idx], idx + 2, nil
}

func parseLineFrame(buf []byte) (*Frame, int, error) {
	line, n, err := readLine(buf)
	if err != nil {
		return nil, 0, err
	}
	body := line[1:]
	switch Type(buf[0]) {
	case TypeSimpleString:
		return &Frame{Type: TypeSimpleString, Str: append([]byte(nil), body...)}, n, nil
	case TypeError:
		return &Frame{Type: TypeError, Str: append([]byte(nil), body...)}, n, nil
	case TypeInteger:
		v, err := strconv.ParseInt(string(body), 10, 64)
		if err != nil {
			return nil, 0, errors.Wrap(err, "resp: invalid integer")
		}
		return &Frame{Type: TypeInteger, Int: v}, n, nil
	}
	return nil, 0, errInvalidBytes
}

var errInvalidBytes = errors.New("resp: invalid type byte")

func parseBulk(buf []byte) (*Frame, int, error) {
	line, n, err := readLine(buf)
	if err != nil {
		return nil, 0, err
	}
	length, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return nil, 0, errMalformedN
	}
	if length < -1 {
		return nil, 0, errMalformedN
	}
	if length == -1 {
		return &Frame{Type: TypeBulk, Null: true}, n, nil
	}
	if length > maxBulkLength {
		return nil, 0, errBulkTooLarge
	}

	need := n + length + 2
	if len(buf) < need {
		return nil, 0, errIncomplete
	}
	if buf[n+length] != '\r' || buf[n+length+1] != '\n' {
		return nil, 0, errMalformedN
	}

	data := make([]byte, length)
	copy(data, buf[n:n+length])
	return &Frame{Type: TypeBulk, Str: data}, need, nil
}

func parseArray(buf []byte) (*Frame, int, error) {
	line, n, err := readLine(buf)
	if err != nil {
		return nil, 0, err
	}
	count, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return nil, 0, errMalformedN
	}
	if count < -1 {
		return nil, 0, errMalformedN
	}
	if count == -1 {
		return &Frame{Type: TypeArray, Null: true}, n, nil
	}
	if count > maxArrayLength {
		return nil, 0, errArrayTooLarge
	}

	items := make([]*Frame, 0, count)
	off := n
	for i := 0; i < count; i++ {
		item, sz, err := parseElement(buf[off:])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
		off += sz
	}
	return &Frame{Type: TypeArray, Array: items}, off, nil
}

// parseInline decodes the classic space-separated inline command form,
// used by simple clients (and `nc`/telnet) that never send a RESP
// array. The line is split on runs of spaces and folded into the same
// Array-of-Bulk shape a real client would have sent.
func parseInline(buf []byte) (*Frame, int, error) {
	line, n, err := readLine(buf)
	if err != nil {
		if len(buf) > maxInlineLength {
			return nil, 0, errInlineTooLarge
		}
		return nil, 0, err
	}
	if len(line) > maxInlineLength {
		return nil, 0, errInlineTooLarge
	}

	fields := bytes.Fields(line)
	if len(fields) == 0 {
		return nil, n, nil
	}

	items := make([]*Frame, 0, len(fields))
	for _, f := range fields {
		items = append(items, NewBulk(append([]byte(nil), f...)))
	}
	return &Frame{Type: TypeArray, Array: items}, n, nil
}
