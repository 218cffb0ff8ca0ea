package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/argon2"
)

type (
	// Hasher turns a plaintext password into a stored digest and checks
	// a plaintext against a stored digest.
	Hasher interface {
		Hash(password string) (string, error)
		Verify(password, digest string) bool
	}

	// SHA256Hasher is the legacy digest format: lowercase hex of a single
	// unsalted SHA-256 pass over the UTF-8 password. Kept only so digests
	// written by older deployments still verify; do not use it for new
	// digests.
	SHA256Hasher struct{}

	// Argon2Hasher produces salted argon2id digests in the standard
	// $argon2id$ encoded form.
	Argon2Hasher struct {
		Time    uint32
		Memory  uint32
		Threads uint8
		KeyLen  uint32
		SaltLen int
	}

	fallbackHasher struct {
		primary Hasher
		legacy  Hasher
	}
)

const argon2Prefix = "$argon2id$"

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (s SHA256Hasher) Verify(password, digest string) bool {
	computed, _ := s.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// NewArgon2Hasher returns an argon2id hasher with more passes over a
// smaller block of memory, trading peak memory for time.
func NewArgon2Hasher() *Argon2Hasher {
	threads := uint8(runtime.NumCPU() / 2)
	if threads == 0 {
		threads = 1
	}
	return &Argon2Hasher{
		Time:    7,
		Memory:  10 * 1024,
		Threads: threads,
		KeyLen:  32,
		SaltLen: 16,
	}
}

func (a *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, a.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: cannot generate salt, cause %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, a.Time, a.Memory, a.Threads, a.KeyLen)
	return fmt.Sprintf("%vv=%v$m=%v,t=%v,p=%v$%v$%v",
		argon2Prefix, argon2.Version, a.Memory, a.Time, a.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (a *Argon2Hasher) Verify(password, digest string) bool {
	memory, time, threads, salt, key, err := parseArgon2(digest)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}

func parseArgon2(digest string) (memory, time uint32, threads uint8, salt, key []byte, err error) {
	if !strings.HasPrefix(digest, argon2Prefix) {
		err = fmt.Errorf("auth: not an argon2id digest")
		return
	}
	parts := strings.Split(digest[len(argon2Prefix):], "$")
	if len(parts) != 4 {
		err = fmt.Errorf("auth: malformed argon2id digest")
		return
	}
	var version int
	if _, err = fmt.Sscanf(parts[0], "v=%d", &version); err != nil || version != argon2.Version {
		err = fmt.Errorf("auth: unsupported argon2 version")
		return
	}
	if _, err = fmt.Sscanf(parts[1], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		err = fmt.Errorf("auth: malformed argon2id parameters")
		return
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[3])
	return
}

// DefaultHasher hashes with argon2id and verifies either format, picking
// the legacy SHA-256 path for digests that do not carry the argon2id
// marker. A user whose digest predates the migration is re-hashed the
// next time the caller decides to, not by this package.
func DefaultHasher() Hasher {
	return fallbackHasher{primary: NewArgon2Hasher(), legacy: SHA256Hasher{}}
}

func (f fallbackHasher) Hash(password string) (string, error) {
	return f.primary.Hash(password)
}

func (f fallbackHasher) Verify(password, digest string) bool {
	if strings.HasPrefix(digest, argon2Prefix) {
		return f.primary.Verify(password, digest)
	}
	return f.legacy.Verify(password, digest)
}
