// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLength   = 16

	OneTimeTokenBytes = 32
	SessionIDBytes    = 32
)

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var currentParams = argonParams{
	memory:  argonMemory,
	time:    argonTime,
	threads: argonThreads,
	keyLen:  argonKeyLen,
}

// HashPassword is the only way a password reaches storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := derive(password, salt, currentParams)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		currentParams.memory,
		currentParams.time,
		currentParams.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	params, salt, stored, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := derive(password, salt, *params)

	return subtle.ConstantTimeCompare(stored, candidate) == 1, nil
}

// PasswordCheck is the outcome of a login-time verification. Rehash is set
// when the stored parameters are stale and the password matched.
type PasswordCheck struct {
	Valid  bool
	Rehash string
}

var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// VerifyPasswordTimingSafe always runs one full argon2id derivation, so a
// missing identity costs the same as a wrong password.
func VerifyPasswordTimingSafe(password, encodedHash string) (PasswordCheck, error) {
	target := encodedHash
	if target == "" {
		target = dummyHash
	}

	valid, err := VerifyPassword(password, target)
	if encodedHash == "" {
		return PasswordCheck{}, nil
	}
	if err != nil {
		return PasswordCheck{}, err
	}
	if !valid {
		return PasswordCheck{}, nil
	}

	check := PasswordCheck{Valid: true}
	if needsRehash(encodedHash) {
		if newHash, hashErr := HashPassword(password); hashErr == nil {
			check.Rehash = newHash
		}
	}

	return check, nil
}

func derive(password string, salt []byte, p argonParams) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func decodeHash(encodedHash string) (*argonParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params := &argonParams{}
	if _, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memory,
		&params.time,
		&params.threads,
	); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: argon2id keys are 32 bytes
	params.keyLen = uint32(len(key))

	return params, salt, key, nil
}

func needsRehash(encodedHash string) bool {
	params, _, _, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	return *params != currentParams
}

// RandomHex returns n random bytes hex encoded. Used for one-time tokens and
// session ids.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func GenerateOneTimeToken() (string, error) {
	return RandomHex(OneTimeTokenBytes)
}

func GenerateSessionID() (string, error) {
	return RandomHex(SessionIDBytes)
}

// HashToken is what gets persisted for one-time tokens; the plaintext only
// ever leaves the process inside a notification.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(hash)) == 1
}
