package netcalc

import (
	"fmt"
	"strconv"
	"strings"
)

// Subnet is an address together with its prefix length. Address keeps the
// host bits the caller supplied; Network() clears them.
type Subnet struct {
	Address Addr
	Prefix  int
}

// ParseCIDR accepts "a.b.c.d/n", "a.b.c.d a.b.c.d" (address and netmask) or a
// bare address, which is treated as /32.
func ParseCIDR(s string) (Subnet, error) {
	raw := strings.TrimSpace(s)
	if addr, prefix, ok := strings.Cut(raw, "/"); ok {
		a, err := ParseAddr(addr)
		if err != nil {
			return Subnet{}, err
		}
		p, err := strconv.Atoi(strings.TrimSpace(prefix))
		if err != nil || p < 0 || p > 32 {
			return Subnet{}, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
		}
		return Subnet{Address: a, Prefix: p}, nil
	}
	if fields := strings.Fields(raw); len(fields) == 2 {
		a, err := ParseAddr(fields[0])
		if err != nil {
			return Subnet{}, err
		}
		m, err := ParseAddr(fields[1])
		if err != nil {
			return Subnet{}, fmt.Errorf("%w: %q", ErrInvalidMask, fields[1])
		}
		p, err := PrefixFromMask(m)
		if err != nil {
			return Subnet{}, err
		}
		return Subnet{Address: a, Prefix: p}, nil
	}
	a, err := ParseAddr(raw)
	if err != nil {
		return Subnet{}, err
	}
	return Subnet{Address: a, Prefix: 32}, nil
}

func (s Subnet) Mask() Addr {
	m, _ := MaskFromPrefix(s.Prefix)
	return m
}

func (s Subnet) Wildcard() Addr {
	return ^s.Mask()
}

func (s Subnet) Network() Addr {
	return s.Address & s.Mask()
}

func (s Subnet) Broadcast() Addr {
	return s.Network() | s.Wildcard()
}

// TotalAddresses counts every address in the block, including network and
// broadcast.
func (s Subnet) TotalAddresses() uint64 {
	return uint64(1) << uint(32-s.Prefix)
}

// UsableHosts follows RFC 3021 for /31 and treats /32 as a single host.
func (s Subnet) UsableHosts() uint64 {
	switch s.Prefix {
	case 32:
		return 1
	case 31:
		return 2
	default:
		return s.TotalAddresses() - 2
	}
}

func (s Subnet) FirstHost() Addr {
	if s.Prefix >= 31 {
		return s.Network()
	}
	return s.Network() + 1
}

func (s Subnet) LastHost() Addr {
	if s.Prefix >= 31 {
		return s.Broadcast()
	}
	return s.Broadcast() - 1
}

func (s Subnet) Contains(a Addr) bool {
	return a&s.Mask() == s.Network()
}

// String renders the canonical network form, e.g. 10.0.0.0/8.
func (s Subnet) String() string {
	return fmt.Sprintf("%s/%d", s.Network(), s.Prefix)
}

// Class returns the historical classful designation of the address.
func (s Subnet) Class() string {
	first := s.Address.Octets()[0]
	switch {
	case first < 128:
		return "A"
	case first < 192:
		return "B"
	case first < 224:
		return "C"
	case first < 240:
		return "D"
	default:
		return "E"
	}
}

type scopeRange struct {
	block Subnet
	name  string
}

var scopes = []scopeRange{
	{Subnet{Address: 0x00000000, Prefix: 8}, "this-network"},
	{Subnet{Address: 0x0A000000, Prefix: 8}, "private"},
	{Subnet{Address: 0x64400000, Prefix: 10}, "shared"},
	{Subnet{Address: 0x7F000000, Prefix: 8}, "loopback"},
	{Subnet{Address: 0xA9FE0000, Prefix: 16}, "link-local"},
	{Subnet{Address: 0xAC100000, Prefix: 12}, "private"},
	{Subnet{Address: 0xC0000200, Prefix: 24}, "documentation"},
	{Subnet{Address: 0xC0A80000, Prefix: 16}, "private"},
	{Subnet{Address: 0xC6120000, Prefix: 15}, "benchmarking"},
	{Subnet{Address: 0xC6336400, Prefix: 24}, "documentation"},
	{Subnet{Address: 0xCB007100, Prefix: 24}, "documentation"},
	{Subnet{Address: 0xE0000000, Prefix: 4}, "multicast"},
	{Subnet{Address: 0xFFFFFFFF, Prefix: 32}, "broadcast"},
	{Subnet{Address: 0xF0000000, Prefix: 4}, "reserved"},
}

// Scope names the special-purpose range the address falls in, or "public".
func (s Subnet) Scope() string {
	for _, r := range scopes {
		if r.block.Contains(s.Address) {
			return r.name
		}
	}
	return "public"
}

// Split enumerates the child subnets of s at newPrefix in address order. At
// most limit subnets are returned; total reports how many exist.
func Split(s Subnet, newPrefix, limit int) ([]Subnet, uint64, error) {
	if newPrefix < s.Prefix || newPrefix > 32 {
		return nil, 0, fmt.Errorf("%w: /%d must be between /%d and /32", ErrInvalidPrefix, newPrefix, s.Prefix)
	}
	total := uint64(1) << uint(newPrefix-s.Prefix)
	n := total
	if limit >= 0 && uint64(limit) < n {
		n = uint64(limit)
	}
	step := uint64(1) << uint(32-newPrefix)
	base := uint64(s.Network())
	out := make([]Subnet, 0, n)
	for i := uint64(0); i < n; i++ {
		out = append(out, Subnet{Address: Addr(base + i*step), Prefix: newPrefix})
	}
	return out, total, nil
}
