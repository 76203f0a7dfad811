package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func legacyHash(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return "pbkdf2:sha256:" + strconv.Itoa(iterations) + "$" + salt + "$" + hex.EncodeToString(key)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("adminpass")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "adminpass"))
	assert.False(t, VerifyPassword(hash, "adminpas"))
	assert.False(t, VerifyPassword("", "adminpass"))
	assert.False(t, NeedsRehash(hash))
}

func TestVerifyLegacyPBKDF2(t *testing.T) {
	hash := legacyHash("adminpass", "Zx81salt", 1000)

	assert.True(t, VerifyPassword(hash, "adminpass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.True(t, NeedsRehash(hash))
}

func TestVerifyMalformedLegacyHash(t *testing.T) {
	cases := []string{
		"pbkdf2:sha256:1000$onlysalt",
		"pbkdf2:sha1:1000$salt$abcd",
		"pbkdf2:sha256:notanumber$salt$abcd",
		"pbkdf2:sha256:1000$salt$nothex",
	}
	for _, hash := range cases {
		assert.False(t, VerifyPassword(hash, "adminpass"), hash)
	}
}

func TestConstantTimeCompare(t *testing.T) {
	assert.True(t, ConstantTimeCompare("admin", "admin"))
	assert.False(t, ConstantTimeCompare("admin", "Admin"))
}
