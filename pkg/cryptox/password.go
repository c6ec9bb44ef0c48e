package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. These follow the RFC 9106 "memory-constrained"
// recommendation and are encoded into every hash, so they can change
// without invalidating existing hashes.
const (
	saltLength  = 16
	iterations  = 3
	memory      = 64 * 1024
	parallelism = 2
	keyLength   = 32
)

var errHashFormat = errors.New("cryptox: malformed argon2id hash")

// HashSecret produces a PHC-format Argon2id hash of a password or client
// secret, including salt and parameters.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifySecret compares a plaintext password or client secret against a
// PHC-format Argon2id hash in constant time. A nil return means the secret
// matches.
func VerifySecret(secret, encodedHash string) error {
	var (
		mem, iters uint32
		par        uint8
		b64Salt    string
		b64Hash    string
	)

	// PHC layout: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	n, err := fmt.Sscanf(encodedHash, "$argon2id$v=19$m=%d,t=%d,p=%d$%s", &mem, &iters, &par, &b64Salt)
	if err != nil || n != 4 {
		return errHashFormat
	}
	if i := strings.IndexByte(b64Salt, '$'); i >= 0 {
		b64Salt, b64Hash = b64Salt[:i], b64Salt[i+1:]
	} else {
		return errHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(b64Salt)
	if err != nil {
		return errHashFormat
	}
	want, err := base64.RawStdEncoding.DecodeString(b64Hash)
	if err != nil {
		return errHashFormat
	}

	got := argon2.IDKey([]byte(secret), salt, iters, mem, par, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errors.New("cryptox: secret mismatch")
	}
	return nil
}
