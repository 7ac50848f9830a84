package netcalc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnetSlash24(t *testing.T) {
	s, err := ParseCIDR("192.168.1.0/24")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.0", s.Network().String())
	assert.Equal(t, "192.168.1.255", s.Broadcast().String())
	assert.Equal(t, "255.255.255.0", s.Mask().String())
	assert.Equal(t, "0.0.0.255", s.Wildcard().String())
	assert.Equal(t, "192.168.1.1", s.FirstHost().String())
	assert.Equal(t, "192.168.1.254", s.LastHost().String())
	assert.Equal(t, uint64(256), s.TotalAddresses())
	assert.Equal(t, uint64(254), s.UsableHosts())
	assert.Equal(t, "C", s.Class())
	assert.Equal(t, "private", s.Scope())
	assert.Equal(t, "192.168.1.0/24", s.String())
}

func TestSubnetHostBitsCleared(t *testing.T) {
	s, err := ParseCIDR("10.20.30.40/12")
	require.NoError(t, err)
	assert.Equal(t, "10.16.0.0", s.Network().String())
	assert.Equal(t, "10.31.255.255", s.Broadcast().String())
	assert.Equal(t, "10.20.30.40", s.Address.String())
}

func TestSubnetEdgePrefixes(t *testing.T) {
	s31, err := ParseCIDR("203.0.113.7/31")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s31.UsableHosts())
	assert.Equal(t, "203.0.113.6", s31.FirstHost().String())
	assert.Equal(t, "203.0.113.7", s31.LastHost().String())

	s32, err := ParseCIDR("8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, 32, s32.Prefix)
	assert.Equal(t, uint64(1), s32.UsableHosts())
	assert.Equal(t, "public", s32.Scope())

	s0, err := ParseCIDR("0.0.0.0/0")
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<32, s0.TotalAddresses())
	assert.Equal(t, "255.255.255.255", s0.Broadcast().String())
}

func TestParseCIDRWithNetmask(t *testing.T) {
	s, err := ParseCIDR("172.16.5.4 255.255.240.0")
	require.NoError(t, err)
	assert.Equal(t, 20, s.Prefix)
	assert.Equal(t, "172.16.0.0/20", s.String())

	_, err = ParseCIDR("172.16.5.4 255.0.255.0")
	assert.True(t, errors.Is(err, ErrInvalidMask), "err=%v", err)
}

func TestParseCIDRErrors(t *testing.T) {
	cases := map[string]error{
		"300.1.1.1/24": ErrInvalidAddress,
		"10.0.0.0/33":  ErrInvalidPrefix,
		"10.0.0.0/-1":  ErrInvalidPrefix,
		"::1/64":       ErrInvalidAddress,
		"hello":        ErrInvalidAddress,
	}
	for in, want := range cases {
		_, err := ParseCIDR(in)
		assert.True(t, errors.Is(err, want), "in=%q err=%v", in, err)
	}
}

func TestContains(t *testing.T) {
	s, err := ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)
	in, _ := ParseAddr("10.255.0.1")
	out, _ := ParseAddr("11.0.0.1")
	assert.True(t, s.Contains(in))
	assert.False(t, s.Contains(out))
}

func TestSplit(t *testing.T) {
	s, err := ParseCIDR("192.168.0.0/22")
	require.NoError(t, err)

	subs, total, err := Split(s, 24, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), total)
	require.Len(t, subs, 4)
	assert.Equal(t, "192.168.3.0/24", subs[3].String())

	subs, total, err = Split(s, 30, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), total)
	assert.Len(t, subs, 2)
	assert.Equal(t, "192.168.0.4/30", subs[1].String())

	_, _, err = Split(s, 20, 10)
	assert.True(t, errors.Is(err, ErrInvalidPrefix))
}

func TestParseAnyAddrForms(t *testing.T) {
	want, err := ParseAddr("192.168.1.1")
	require.NoError(t, err)

	for _, in := range []string{
		"3232235777",
		"0xC0A80101",
		"0b11000000.10101000.00000001.00000001",
		"0o30052000401",
	} {
		got, err := ParseAnyAddr(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	assert.Equal(t, "11000000.10101000.00000001.00000001", want.Binary())
	assert.Equal(t, "0xC0A80101", want.Hex())
	assert.Equal(t, "0o30052000401", want.Octal())

	_, err = ParseAnyAddr("4294967296")
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestPrefixFromMask(t *testing.T) {
	for prefix := 0; prefix <= 32; prefix++ {
		m, err := MaskFromPrefix(prefix)
		require.NoError(t, err)
		got, err := PrefixFromMask(m)
		require.NoError(t, err)
		assert.Equal(t, prefix, got)
	}
}
