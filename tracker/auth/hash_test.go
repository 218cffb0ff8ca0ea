package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256HasherMatchesLegacyFormat(t *testing.T) {
	// digest format inherited from older deployments: unsalted lowercase
	// hex of a single SHA-256 pass
	digest, err := SHA256Hasher{}.Hash("pw123")
	require.NoError(t, err)
	require.Equal(t, "23d47445adfb8991789b459b6ba1b974d727d310aa9d80b7c2875b9430c0ba25", digest)

	require.True(t, SHA256Hasher{}.Verify("pw123", digest))
	require.False(t, SHA256Hasher{}.Verify("pw124", digest))
}

func TestArgon2HasherRoundtrip(t *testing.T) {
	hasher := NewArgon2Hasher()
	digest, err := hasher.Hash("pw123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$argon2id$"))
	require.True(t, hasher.Verify("pw123", digest))
	require.False(t, hasher.Verify("pw124", digest))

	other, err := hasher.Hash("pw123")
	require.NoError(t, err)
	require.NotEqual(t, digest, other, "two digests of the same password must not share a salt")
	require.True(t, hasher.Verify("pw123", other))
}

func TestArgon2HasherRejectsMangledDigests(t *testing.T) {
	hasher := NewArgon2Hasher()
	for _, digest := range []string{
		"",
		"$argon2id$",
		"$argon2id$v=19$m=10240,t=7,p=2$notbase64!$notbase64!",
		"23d47445adfb8991789b459b6ba1b974d727d310aa9d80b7c2875b9430c0ba25",
	} {
		require.False(t, hasher.Verify("pw123", digest), "digest %q should not verify", digest)
	}
}

func TestDefaultHasherVerifiesBothFormats(t *testing.T) {
	hasher := DefaultHasher()

	legacy, err := SHA256Hasher{}.Hash("pw123")
	require.NoError(t, err)
	require.True(t, hasher.Verify("pw123", legacy))
	require.False(t, hasher.Verify("pw124", legacy))

	modern, err := hasher.Hash("pw123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(modern, "$argon2id$"), "new digests must never use the legacy format")
	require.True(t, hasher.Verify("pw123", modern))
}
