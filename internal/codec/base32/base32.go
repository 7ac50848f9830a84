// Package base32 implements the RFC 4648 Base32 alphabet over 5-bit groups.
//
// Decoding is lenient about case, whitespace and missing padding, and strict
// about everything else.
package base32

import (
	"errors"
	"fmt"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

const padChar = '='

var (
	ErrInvalidCharacter = errors.New("base32: invalid character")
	ErrInvalidLength    = errors.New("base32: invalid length")
)

var decodeMap = func() [256]byte {
	var m [256]byte
	for i := range m {
		m[i] = 0xFF
	}
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = byte(i)
		m[alphabet[i]|0x20] = byte(i)
	}
	return m
}()

// Encode packs src into 5-bit symbols. When pad is set the output length is a
// multiple of 8.
func Encode(src []byte, pad bool) string {
	if len(src) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow((len(src)*8+4)/5 + 6)

	var buffer uint64
	bits := 0
	for _, c := range src {
		buffer = buffer<<8 | uint64(c)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b.WriteByte(alphabet[(buffer>>uint(bits))&0x1F])
		}
	}
	if bits > 0 {
		b.WriteByte(alphabet[(buffer<<uint(5-bits))&0x1F])
	}
	if pad {
		for b.Len()%8 != 0 {
			b.WriteByte(padChar)
		}
	}
	return b.String()
}

// Decode reverses Encode. Trailing padding is optional but, when present,
// must only appear at the end.
func Decode(s string) ([]byte, error) {
	symbols := make([]byte, 0, len(s))
	padAt := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			continue
		case c == padChar:
			if padAt < 0 {
				padAt = i
			}
			continue
		}
		if padAt >= 0 {
			return nil, fmt.Errorf("%w: data after padding at offset %d", ErrInvalidCharacter, i)
		}
		v := decodeMap[c]
		if v == 0xFF {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, c, i)
		}
		symbols = append(symbols, v)
	}

	switch len(symbols) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("%w: %d symbols cannot encode whole bytes", ErrInvalidLength, len(symbols))
	}

	out := make([]byte, 0, len(symbols)*5/8)
	var buffer uint64
	bits := 0
	for _, v := range symbols {
		buffer = buffer<<5 | uint64(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>uint(bits)))
		}
	}
	return out, nil
}
