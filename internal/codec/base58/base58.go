// Package base58 implements Base58 with the Bitcoin alphabet.
//
// The payload is treated as one big-endian integer and converted positionally;
// leading zero bytes are carried as leading '1' symbols.
package base58

import (
	"errors"
	"fmt"
	"math/big"
)

const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var ErrInvalidCharacter = errors.New("base58: invalid character")

var (
	radix = big.NewInt(58)

	decodeMap = func() [256]int8 {
		var m [256]int8
		for i := range m {
			m[i] = -1
		}
		for i := 0; i < len(Alphabet); i++ {
			m[Alphabet[i]] = int8(i)
		}
		return m
	}()
)

// Encode converts src to Base58.
func Encode(src []byte) string {
	zeros := 0
	for zeros < len(src) && src[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(src[zeros:])
	mod := new(big.Int)
	// log(256)/log(58) ~= 1.37
	digits := make([]byte, 0, len(src)*138/100+1)
	for n.Sign() > 0 {
		n.DivMod(n, radix, mod)
		digits = append(digits, Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		digits = append(digits, Alphabet[0])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// Decode converts a Base58 string back to bytes.
func Decode(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == Alphabet[0] {
		zeros++
	}

	n := new(big.Int)
	digit := new(big.Int)
	for i := zeros; i < len(s); i++ {
		v := decodeMap[s[i]]
		if v < 0 {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, s[i], i)
		}
		n.Mul(n, radix)
		n.Add(n, digit.SetInt64(int64(v)))
	}

	body := n.Bytes()
	out := make([]byte, zeros+len(body))
	copy(out[zeros:], body)
	return out, nil
}
