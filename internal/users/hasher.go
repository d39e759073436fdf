package users

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/cruduser/cruduser/internal/config"
)

// Hasher turns plaintext passwords into their stored digest form
type Hasher interface {
	Hash(plaintext []byte) (string, error)
	Verify(digest string, plaintext []byte) bool
}

// NewHasher returns the hasher named by algorithm ("bcrypt" or "md5")
func NewHasher(algorithm string, bcryptCost int) (Hasher, error) {
	switch algorithm {
	case config.PasswordHashBcrypt, "":
		return NewBcryptHasher(bcryptCost), nil
	case config.PasswordHashMD5:
		return MD5Hasher{}, nil
	default:
		return nil, fmt.Errorf("unsupported password hash: %s", algorithm)
	}
}

// BcryptHasher stores salted bcrypt hashes. bcrypt reads at most 72 bytes
// of input, so the plaintext is condensed to a base64 SHA-256 sum first.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(digest string, plaintext []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(plaintext)) == nil
}

func prehash(plaintext []byte) []byte {
	sum := sha256.Sum256(plaintext)
	buf := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(buf, sum[:])
	return buf
}

// MD5Hasher produces unsalted hex digests compatible with accounts written
// by the legacy service. Not suitable for new deployments.
type MD5Hasher struct{}

func (MD5Hasher) Hash(plaintext []byte) (string, error) {
	sum := md5.Sum(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

func (h MD5Hasher) Verify(digest string, plaintext []byte) bool {
	candidate, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
