// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package rlp

import (
	"fmt"
	"io"
)

// Decoder reads canonical RLP items from a byte buffer. Offsets reported in
// errors are relative to the start of the outermost buffer.
type Decoder struct {
	buf  *buf
	base int
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: newBuf(b, 0)}
}

func (d *Decoder) String() string {
	return fmt.Sprintf(`left=%x pos=%d`, d.buf.Bytes(), d.Offset())
}

func (d *Decoder) Empty() bool { return d.buf.empty() }

// Offset is the absolute position of the next unread byte.
func (d *Decoder) Offset() int { return d.base + d.buf.Offset() }

func (d *Decoder) Bytes() []byte { return d.buf.Bytes() }

func (d *Decoder) PeekToken() (Token, error) {
	prefix, err := d.buf.PeekByte()
	if err != nil {
		return TokenUnknown, err
	}
	return identifyToken(prefix), nil
}

// Elem reads the next item and returns its payload without the prefix.
// For TokenDecimal the payload is the single byte itself.
func (d *Decoder) Elem() ([]byte, Token, error) {
	w := d.buf
	start := d.Offset()
	prefix, err := w.ReadByte()
	if err != nil {
		return nil, TokenUnknown, fmt.Errorf("%w at offset %d", ErrTruncated, start)
	}
	token := identifyToken(prefix)

	var payload []byte
	switch token {
	case TokenDecimal:
		payload = []byte{prefix}
	case TokenShortBlob, TokenShortList:
		sz := int(token.Diff(prefix))
		payload, err = d.nextFull(sz)
		if err == nil && token == TokenShortBlob && sz == 1 && payload[0] < 0x80 {
			err = fmt.Errorf("%w: single byte %#x below 0x80 must not carry a prefix at offset %d", ErrNonCanonical, payload[0], start)
		}
	case TokenLongBlob, TokenLongList:
		lenSz := int(token.Diff(prefix))
		var sz int
		sz, err = d.nextBeInt(lenSz)
		if err != nil {
			return nil, token, err
		}
		if sz < 56 {
			return nil, token, fmt.Errorf("%w: long form used for size %d at offset %d", ErrNonCanonical, sz, start)
		}
		payload, err = d.nextFull(sz)
	default:
		return nil, token, fmt.Errorf("%w: unknown token %#x at offset %d", ErrDecode, prefix, start)
	}
	if err != nil {
		return nil, token, err
	}
	return payload, token, nil
}

// ForList reads a list item and calls fn with a decoder positioned on its
// payload until the payload is consumed.
func (d *Decoder) ForList(fn func(*Decoder) error) error {
	start := d.Offset()
	payload, token, err := d.Elem()
	if err != nil {
		return err
	}
	if !token.IsList() {
		return fmt.Errorf("%w at offset %d", ErrExpectedList, start)
	}
	dec := &Decoder{buf: newBuf(payload, 0), base: d.Offset() - len(payload)}
	for !dec.Empty() {
		if err := fn(dec); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) nextFull(n int) ([]byte, error) {
	if d.buf.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d at offset %d", ErrTruncated, n, d.buf.Len(), d.Offset())
	}
	return d.buf.Next(n), nil
}

func (d *Decoder) nextBeInt(lenSz int) (int, error) {
	start := d.Offset()
	if lenSz > 8 {
		return 0, fmt.Errorf("%w: length of size %d at offset %d", ErrTooLarge, lenSz, start)
	}
	b, err := d.nextFull(lenSz)
	if err != nil {
		return 0, err
	}
	if b[0] == 0 {
		return 0, fmt.Errorf("%w: size has leading zero at offset %d", ErrNonCanonical, start)
	}
	var sz uint64
	for _, c := range b {
		sz = sz<<8 | uint64(c)
	}
	if sz > uint64(maxInt) {
		return 0, fmt.Errorf("%w: size %d at offset %d", ErrTooLarge, sz, start)
	}
	return int(sz), nil
}

const maxInt = int(^uint(0) >> 1)

// Decode parses exactly one item from data.
func Decode(data []byte) (Value, error) {
	d := NewDecoder(data)
	v, err := d.value()
	if err != nil {
		return Value{}, err
	}
	if !d.Empty() {
		return Value{}, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailing, d.buf.Len(), d.Offset())
	}
	return v, nil
}

func (d *Decoder) value() (Value, error) {
	tok, err := d.PeekToken()
	if err == io.EOF {
		return Value{}, fmt.Errorf("%w at offset %d", ErrTruncated, d.Offset())
	}
	if !tok.IsList() {
		payload, _, err := d.Elem()
		if err != nil {
			return Value{}, err
		}
		return String(payload), nil
	}
	items := []Value{}
	err = d.ForList(func(inner *Decoder) error {
		v, err := inner.value()
		if err != nil {
			return err
		}
		items = append(items, v)
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return List(items...), nil
}

type buf struct {
	u   []byte
	off int
}

func newBuf(u []byte, off int) *buf {
	return &buf{u: u, off: off}
}

func (b *buf) empty() bool { return len(b.u) <= b.off }

func (b *buf) PeekByte() (n byte, err error) {
	if len(b.u) <= b.off {
		return 0, io.EOF
	}
	return b.u[b.off], nil
}

func (b *buf) ReadByte() (n byte, err error) {
	if len(b.u) <= b.off {
		return 0, io.EOF
	}
	b.off++
	return b.u[b.off-1], nil
}

func (b *buf) Next(n int) (xs []byte) {
	m := b.Len()
	if n > m {
		n = m
	}
	data := b.u[b.off : b.off+n]
	b.off += n
	return data
}

func (b *buf) Offset() int { return b.off }

func (b *buf) Bytes() []byte { return b.u[b.off:] }

func (b *buf) Len() int { return len(b.u) - b.off }
