package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashAlgorithm = "pbkdf2_sha256"
	saltBytes     = 32
	digestBytes   = 32

	// DefaultHashIterations is the PBKDF2 iteration count used when none is configured.
	DefaultHashIterations = 100000
)

// Hasher derives and verifies salted PBKDF2-HMAC-SHA256 password digests.
// The encoded form is "pbkdf2_sha256$<iterations>$<hex-salt>$<hex-digest>".
type Hasher struct {
	iterations int
}

func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultHashIterations
	}
	return &Hasher{iterations: iterations}
}

// Hash derives a digest for the given password with a fresh random salt.
func (h *Hasher) Hash(password string) string {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("read random salt: %v", err))
	}
	salt := hex.EncodeToString(raw)

	// the KDF consumes the hex-encoded salt bytes, matching the stored form
	digest := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, digestBytes, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s", hashAlgorithm, h.iterations, salt, hex.EncodeToString(digest))
}

// Verify reports whether password matches the encoded digest. Malformed
// digests and any internal failure collapse to false; callers never learn
// why verification failed.
func (h *Hasher) Verify(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 {
		return false
	}
	if parts[0] != hashAlgorithm {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	salt := parts[2]
	stored, err := hex.DecodeString(parts[3])
	if err != nil || len(stored) == 0 {
		return false
	}

	computed := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(computed, stored) == 1
}
