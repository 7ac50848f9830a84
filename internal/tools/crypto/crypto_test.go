package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/devkit/internal/testutil/testlog"
	"github.com/danmuck/devkit/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digest(t *testing.T, args map[string]string) string {
	t.Helper()
	res, err := Hash{}.Execute("digest", args)
	require.NoError(t, err)
	return strings.TrimSpace(string(res.Stdout))
}

func TestHashKnownVectors(t *testing.T) {
	testlog.Start(t)
	vectors := map[string]string{
		"md5":         "900150983cd24fb0d6963f7d28e17f72",
		"sha1":        "a9993e364706816aba3e25717850c26c9cd0d89d",
		"sha256":      "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		"sha3-256":    "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
		"blake2b-512": "ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d17d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923",
	}
	for alg, want := range vectors {
		assert.Equal(t, want, digest(t, map[string]string{"input": "abc", "algorithm": alg}), alg)
	}
	assert.Equal(t, "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=",
		digest(t, map[string]string{"input": "abc", "encoding": "base64"}))
}

func TestHashAllListsEveryAlgorithm(t *testing.T) {
	testlog.Start(t)
	res, err := Hash{}.Execute("all", map[string]string{"input": ""})
	require.NoError(t, err)
	out := string(res.Stdout)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(algorithms))
	assert.Contains(t, out, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
}

func TestHashUnknownAlgorithm(t *testing.T) {
	testlog.Start(t)
	res, err := Hash{}.Execute("digest", map[string]string{"input": "x", "algorithm": "crc32"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	assert.Contains(t, string(res.Stderr), "unknown algorithm")
}

const fox = "The quick brown fox jumps over the lazy dog"

func TestHMACSignAndVerify(t *testing.T) {
	testlog.Start(t)
	res, err := HMAC{}.Execute("sign", map[string]string{"input": fox, "key": "key"})
	require.NoError(t, err)
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", strings.TrimSpace(string(res.Stdout)))

	res, err = HMAC{}.Execute("sign", map[string]string{"input": fox, "key": "key", "algorithm": "md5"})
	require.NoError(t, err)
	assert.Equal(t, "80070713463e7749b90c2dc24911e275", strings.TrimSpace(string(res.Stdout)))

	res, err = HMAC{}.Execute("verify", map[string]string{
		"input": fox, "key": "key",
		"mac": "F7BC83F430538424B13298E6AA6FB143EF4D59A14946175997479DBC2D1A3CD8",
	})
	require.NoError(t, err)
	assert.Equal(t, "valid\n", string(res.Stdout))

	_, err = HMAC{}.Execute("verify", map[string]string{"input": fox, "key": "other", "mac": "f7bc83f4"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))

	_, err = HMAC{}.Execute("verify", map[string]string{"input": fox, "key": "key", "mac": "zz"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}

func TestMetadataIsValid(t *testing.T) {
	for _, tool := range []tools.Tool{Hash{}, HMAC{}} {
		assert.NoError(t, tools.ValidateMetadata(tool.Metadata()))
		_, err := tool.Execute("bogus", nil)
		assert.True(t, errors.Is(err, tools.ErrActionNotFound))
	}
}
