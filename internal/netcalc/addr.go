// Package netcalc does IPv4 address and subnet arithmetic on 32-bit integers.
package netcalc

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

var (
	ErrInvalidAddress = errors.New("netcalc: invalid IPv4 address")
	ErrInvalidPrefix  = errors.New("netcalc: invalid prefix length")
	ErrInvalidMask    = errors.New("netcalc: invalid netmask")
)

// Addr is an IPv4 address in host order.
type Addr uint32

// ParseAddr parses a dotted-quad IPv4 address.
func ParseAddr(s string) (Addr, error) {
	ip, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !ip.Is4() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	b := ip.As4()
	return Addr(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
}

// ParseAnyAddr accepts dotted-quad, plain decimal, 0x-prefixed hex, 0b-prefixed
// binary (dots allowed between octets) and 0o-prefixed octal forms.
func ParseAnyAddr(s string) (Addr, error) {
	raw := strings.TrimSpace(s)
	lower := strings.ToLower(raw)
	switch {
	case raw == "":
		return 0, fmt.Errorf("%w: empty input", ErrInvalidAddress)
	case strings.HasPrefix(lower, "0x"):
		return parseUint(raw, lower[2:], 16)
	case strings.HasPrefix(lower, "0b"):
		return parseUint(raw, strings.ReplaceAll(lower[2:], ".", ""), 2)
	case strings.HasPrefix(lower, "0o"):
		return parseUint(raw, lower[2:], 8)
	case strings.Count(raw, ".") == 3:
		return ParseAddr(raw)
	default:
		return parseUint(raw, raw, 10)
	}
}

func parseUint(orig, digits string, base int) (Addr, error) {
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, orig)
	}
	return Addr(v), nil
}

func (a Addr) Octets() [4]byte {
	return [4]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}
}

func (a Addr) String() string {
	o := a.Octets()
	return fmt.Sprintf("%d.%d.%d.%d", o[0], o[1], o[2], o[3])
}

// Binary renders the address as dotted 8-bit groups.
func (a Addr) Binary() string {
	o := a.Octets()
	return fmt.Sprintf("%08b.%08b.%08b.%08b", o[0], o[1], o[2], o[3])
}

func (a Addr) Hex() string {
	return fmt.Sprintf("0x%08X", uint32(a))
}

func (a Addr) Octal() string {
	return fmt.Sprintf("0o%o", uint32(a))
}

func (a Addr) Decimal() string {
	return strconv.FormatUint(uint64(a), 10)
}

// MaskFromPrefix returns the netmask with the top prefix bits set.
func MaskFromPrefix(prefix int) (Addr, error) {
	if prefix < 0 || prefix > 32 {
		return 0, fmt.Errorf("%w: /%d", ErrInvalidPrefix, prefix)
	}
	if prefix == 0 {
		return 0, nil
	}
	return Addr(^uint32(0) << uint(32-prefix)), nil
}

// PrefixFromMask rejects masks whose set bits are not contiguous from the top.
func PrefixFromMask(mask Addr) (int, error) {
	inv := ^uint32(mask)
	if inv&(inv+1) != 0 {
		return 0, fmt.Errorf("%w: %s is not contiguous", ErrInvalidMask, mask)
	}
	prefix := 0
	for m := uint32(mask); m != 0; m <<= 1 {
		prefix++
	}
	return prefix, nil
}
