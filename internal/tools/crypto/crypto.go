// Package crypto holds the digest and MAC tools.
package crypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category = "crypto"
	HashID   = "crypto.hash"
	HMACID   = "crypto.hmac"
)

type algorithm struct {
	name string
	new  func() hash.Hash
}

func newBlake2b256() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

func newBlake2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

var algorithms = []algorithm{
	{name: "md5", new: md5.New},
	{name: "sha1", new: sha1.New},
	{name: "sha224", new: sha256.New224},
	{name: "sha256", new: sha256.New},
	{name: "sha384", new: sha512.New384},
	{name: "sha512", new: sha512.New},
	{name: "sha3-256", new: sha3.New256},
	{name: "sha3-512", new: sha3.New512},
	{name: "blake2b-256", new: newBlake2b256},
	{name: "blake2b-512", new: newBlake2b512},
}

func lookup(name string) (algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var names []string
	for _, a := range algorithms {
		if a.name == name {
			return a, nil
		}
		names = append(names, a.name)
	}
	return algorithm{}, tools.Invalid("unknown algorithm %q, expected one of %s", name, strings.Join(names, "|"))
}

func encodeDigest(sum []byte, encoding string) string {
	if encoding == "base64" {
		return base64.StdEncoding.EncodeToString(sum)
	}
	return hex.EncodeToString(sum)
}

var (
	inputArg    = tools.ArgSpec{Name: tools.ArgInput, Description: "text to digest", Required: true}
	encodingArg = tools.ArgSpec{Name: "encoding", Description: "hex|base64", Default: "hex"}
)

// Hash computes message digests.
type Hash struct{}

func (Hash) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          HashID,
		Name:        "Hash",
		Category:    Category,
		Description: "Compute MD5, SHA-1, SHA-2, SHA-3 and BLAKE2b digests of text",
	}
}

func (Hash) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "digest", Description: "digest with one algorithm", Args: []tools.ArgSpec{
			inputArg,
			{Name: "algorithm", Description: "md5|sha1|sha224|sha256|sha384|sha512|sha3-256|sha3-512|blake2b-256|blake2b-512", Default: "sha256"},
			encodingArg,
		}},
		{Name: "all", Description: "digest with every algorithm", Args: []tools.ArgSpec{inputArg, encodingArg}},
	}
}

func (Hash) Execute(action string, args map[string]string) (tools.Result, error) {
	encoding, err := tools.Choice(args, "encoding", "hex", "hex", "base64")
	if err != nil {
		return tools.Run("", err)
	}
	input := []byte(tools.Input(args))

	switch strings.TrimSpace(action) {
	case "digest":
		alg, err := lookup(tools.String(args, "algorithm", "sha256"))
		if err != nil {
			return tools.Run("", err)
		}
		h := alg.new()
		h.Write(input)
		return tools.Run(encodeDigest(h.Sum(nil), encoding), nil)
	case "all":
		fields := make([]tools.Field, 0, len(algorithms))
		for _, alg := range algorithms {
			h := alg.new()
			h.Write(input)
			fields = append(fields, tools.F(alg.name, encodeDigest(h.Sum(nil), encoding)))
		}
		return tools.Run(tools.RenderFields(fields), nil)
	default:
		return tools.UnknownAction(HashID, action)
	}
}

// HMAC signs and verifies keyed message authentication codes.
type HMAC struct{}

func (HMAC) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          HMACID,
		Name:        "HMAC",
		Category:    Category,
		Description: "Generate or verify an HMAC of text with a secret key",
	}
}

func (HMAC) Operations() []tools.OperationSpec {
	common := []tools.ArgSpec{
		inputArg,
		{Name: "key", Description: "secret key", Required: true},
		{Name: "algorithm", Description: "any algorithm supported by crypto.hash", Default: "sha256"},
		encodingArg,
	}
	verify := append(append([]tools.ArgSpec{}, common...), tools.ArgSpec{Name: "mac", Description: "expected MAC", Required: true})
	return []tools.OperationSpec{
		{Name: "sign", Description: "compute the MAC", Args: common},
		{Name: "verify", Description: "compare against an expected MAC in constant time", Args: verify},
	}
}

func (m HMAC) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "sign":
		sum, encoding, err := m.sum(args)
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(encodeDigest(sum, encoding), nil)
	case "verify":
		sum, encoding, err := m.sum(args)
		if err != nil {
			return tools.Run("", err)
		}
		expected := strings.TrimSpace(args["mac"])
		var want []byte
		if encoding == "base64" {
			want, err = base64.StdEncoding.DecodeString(expected)
		} else {
			want, err = hex.DecodeString(strings.ToLower(expected))
		}
		if err != nil {
			return tools.Run("", tools.Invalid("mac is not valid %s: %v", encoding, err))
		}
		if !hmac.Equal(sum, want) {
			return tools.Run("", tools.Invalid("mac mismatch"))
		}
		return tools.Run("valid", nil)
	default:
		return tools.UnknownAction(HMACID, action)
	}
}

func (HMAC) sum(args map[string]string) ([]byte, string, error) {
	encoding, err := tools.Choice(args, "encoding", "hex", "hex", "base64")
	if err != nil {
		return nil, "", err
	}
	alg, err := lookup(tools.String(args, "algorithm", "sha256"))
	if err != nil {
		return nil, "", err
	}
	mac := hmac.New(alg.new, []byte(args["key"]))
	mac.Write([]byte(tools.Input(args)))
	return mac.Sum(nil), encoding, nil
}
