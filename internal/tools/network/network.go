// Package network holds the IPv4 subnet and address conversion tools.
package network

import (
	"fmt"
	"strings"

	"github.com/danmuck/devkit/internal/netcalc"
	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category = "network"
	SubnetID = "network.subnet"
	IPv4ID   = "network.ipv4"
)

func invalid(err error) error {
	return tools.Invalid("%v", err)
}

// Subnet calculates IPv4 network ranges.
type Subnet struct{}

func (Subnet) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          SubnetID,
		Name:        "Subnet calculator",
		Category:    Category,
		Description: "Compute network, broadcast, host range and mask details for an IPv4 CIDR",
	}
}

func (Subnet) Operations() []tools.OperationSpec {
	cidr := tools.ArgSpec{Name: tools.ArgInput, Description: "a.b.c.d/n, a.b.c.d with a dotted netmask, or a bare address", Required: true}
	return []tools.OperationSpec{
		{Name: "calculate", Description: "network details", Args: []tools.ArgSpec{cidr}},
		{Name: "contains", Description: "check whether an address belongs to the network", Args: []tools.ArgSpec{
			cidr, {Name: "address", Description: "address to test", Required: true},
		}},
		{Name: "split", Description: "list child subnets at a longer prefix", Args: []tools.ArgSpec{
			cidr,
			{Name: "prefix", Description: "child prefix length", Required: true},
			{Name: "limit", Description: "maximum subnets listed (1-4096)", Default: "256"},
		}},
	}
}

func (s Subnet) Execute(action string, args map[string]string) (tools.Result, error) {
	subnet, err := netcalc.ParseCIDR(tools.Input(args))
	if err != nil {
		return tools.Run("", invalid(err))
	}
	switch strings.TrimSpace(action) {
	case "calculate":
		return tools.Run(describeSubnet(subnet), nil)
	case "contains":
		addr, err := netcalc.ParseAnyAddr(args["address"])
		if err != nil {
			return tools.Run("", invalid(err))
		}
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("network", subnet),
			tools.F("address", addr),
			tools.F("contains", subnet.Contains(addr)),
		}), nil)
	case "split":
		return tools.Run(s.split(subnet, args))
	default:
		return tools.UnknownAction(SubnetID, action)
	}
}

func describeSubnet(s netcalc.Subnet) string {
	return tools.RenderFields([]tools.Field{
		tools.F("address", s.Address),
		tools.F("cidr", s),
		tools.F("network", s.Network()),
		tools.F("broadcast", s.Broadcast()),
		tools.F("netmask", s.Mask()),
		tools.F("wildcard", s.Wildcard()),
		tools.F("prefix", s.Prefix),
		tools.F("first_host", s.FirstHost()),
		tools.F("last_host", s.LastHost()),
		tools.F("total_addresses", s.TotalAddresses()),
		tools.F("usable_hosts", s.UsableHosts()),
		tools.F("class", s.Class()),
		tools.F("scope", s.Scope()),
		tools.F("netmask_binary", s.Mask().Binary()),
	})
}

func (Subnet) split(s netcalc.Subnet, args map[string]string) (string, error) {
	prefix, err := tools.Int(args, "prefix", s.Prefix, 0, 32)
	if err != nil {
		return "", err
	}
	limit, err := tools.Int(args, "limit", 256, 1, 4096)
	if err != nil {
		return "", err
	}
	subnets, total, err := netcalc.Split(s, prefix, limit)
	if err != nil {
		return "", invalid(err)
	}
	lines := make([]string, 0, len(subnets)+1)
	for _, child := range subnets {
		lines = append(lines, fmt.Sprintf("%s\t%s - %s", child, child.FirstHost(), child.LastHost()))
	}
	if rest := total - uint64(len(subnets)); rest > 0 {
		lines = append(lines, fmt.Sprintf("... %d more", rest))
	}
	return strings.Join(lines, "\n"), nil
}

// IPv4 converts an address between notations.
type IPv4 struct{}

func (IPv4) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          IPv4ID,
		Name:        "IPv4 converter",
		Category:    Category,
		Description: "Convert an IPv4 address between dotted, decimal, hex, octal and binary notation",
	}
}

func (IPv4) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "convert", Description: "show every notation", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "dotted, decimal, 0x hex, 0o octal or 0b binary address", Required: true},
		}},
	}
}

func (IPv4) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "convert":
		addr, err := netcalc.ParseAnyAddr(tools.Input(args))
		if err != nil {
			return tools.Run("", invalid(err))
		}
		host := netcalc.Subnet{Address: addr, Prefix: 32}
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("dotted", addr),
			tools.F("decimal", addr.Decimal()),
			tools.F("hex", addr.Hex()),
			tools.F("octal", addr.Octal()),
			tools.F("binary", addr.Binary()),
			tools.F("class", host.Class()),
			tools.F("scope", host.Scope()),
		}), nil)
	default:
		return tools.UnknownAction(IPv4ID, action)
	}
}
