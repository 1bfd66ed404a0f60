package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordIterations = 600000
	passwordSaltLength = 16
	saltAlphabet       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var pbkdf2Digests = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// HashPin hashes a patient PIN with bcrypt.
func HashPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPin reports whether pin matches the stored bcrypt hash. A malformed
// hash is a mismatch, not an error.
func VerifyPin(storedHash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pin)) == nil
}

// HashPassword hashes an account password as
// "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
func HashPassword(password string) (string, error) {
	salt, err := randomSalt(passwordSaltLength)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), []byte(salt), passwordIterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", passwordIterations, salt, hex.EncodeToString(digest)), nil
}

// VerifyPassword checks password against a stored PBKDF2 hash. bcrypt hashes
// are accepted too. Unknown schemes never match.
func VerifyPassword(storedHash, password string) bool {
	if strings.HasPrefix(storedHash, "$2") {
		return VerifyPin(storedHash, password)
	}

	method, rest, ok := strings.Cut(storedHash, "$")
	if !ok {
		return false
	}
	salt, wantHex, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return false
	}
	parts := strings.Split(method, ":")
	if len(parts) != 3 || parts[0] != "pbkdf2" {
		return false
	}
	newHash, ok := pbkdf2Digests[parts[1]]
	if !ok {
		return false
	}
	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := hex.DecodeString(wantHex)
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), newHash)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func randomSalt(n int) (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(saltAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
