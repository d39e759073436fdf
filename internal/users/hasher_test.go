package users

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMD5Hasher(t *testing.T) {
	h := MD5Hasher{}

	digest, err := h.Hash([]byte("pw1"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), digest)
	assert.Equal(t, "6e6fdf956d04289354dcf1619e28fe77", digest)

	again, _ := h.Hash([]byte("pw1"))
	assert.Equal(t, digest, again, "md5 digests are deterministic")

	// well-known vector
	empty, _ := h.Hash([]byte(""))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", empty)

	assert.True(t, h.Verify(digest, []byte("pw1")))
	assert.False(t, h.Verify(digest, []byte("wrong")))
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash([]byte("pw1"))
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", digest)

	again, err := h.Hash([]byte("pw1"))
	require.NoError(t, err)
	assert.NotEqual(t, digest, again, "bcrypt digests are salted")

	assert.True(t, h.Verify(digest, []byte("pw1")))
	assert.True(t, h.Verify(again, []byte("pw1")))
	assert.False(t, h.Verify(digest, []byte("wrong")))
	assert.False(t, h.Verify("not-a-bcrypt-hash", []byte("pw1")))
}

func TestBcryptHasherLongPasswords(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, size := range []int{72, 73, 200} {
		password := strings.Repeat("p", size)
		digest, err := h.Hash([]byte(password))
		require.NoError(t, err, "size %d", size)
		assert.True(t, h.Verify(digest, []byte(password)), "size %d", size)

		// same first 72 bytes, different tail
		other := password[:size-1] + "q"
		assert.False(t, h.Verify(digest, []byte(other)), "size %d", size)
		assert.False(t, h.Verify(digest, []byte(password+"x")), "size %d", size)
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewHasher("md5", 0)
	require.NoError(t, err)
	assert.IsType(t, MD5Hasher{}, h)

	_, err = NewHasher("sha1", 0)
	assert.ErrorContains(t, err, "unsupported password hash")
}
