package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPin_RoundTrip(t *testing.T) {
	hash, err := HashPin("1234")
	require.NoError(t, err)
	assert.NotContains(t, hash, "1234")

	assert.True(t, VerifyPin(hash, "1234"))
	assert.False(t, VerifyPin(hash, "4321"))
	assert.False(t, VerifyPin(hash, ""))
}

func TestVerifyPin_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPin("", "1234"))
	assert.False(t, VerifyPin("not-a-bcrypt-hash", "1234"))
}

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("senha-secreta")
	require.NoError(t, err)

	method, rest, ok := strings.Cut(hash, "$")
	require.True(t, ok)
	assert.Equal(t, "pbkdf2:sha256:600000", method)

	salt, digest, ok := strings.Cut(rest, "$")
	require.True(t, ok)
	assert.Len(t, salt, passwordSaltLength)
	assert.Len(t, digest, 64)

	assert.True(t, VerifyPassword(hash, "senha-secreta"))
	assert.False(t, VerifyPassword(hash, "Senha-secreta"))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_KnownHashes(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{
			name:     "sha256 match",
			hash:     "pbkdf2:sha256:1000$Xy7kLm2Qp9Rt4Wv1$a1c67589acf0962a03923aca9b9eb6dac4d52d7a362ef6be585eb5920e4ce754",
			password: "senha-secreta",
			want:     true,
		},
		{
			name:     "sha256 wrong password",
			hash:     "pbkdf2:sha256:1000$Xy7kLm2Qp9Rt4Wv1$a1c67589acf0962a03923aca9b9eb6dac4d52d7a362ef6be585eb5920e4ce754",
			password: "senha-errada",
			want:     false,
		},
		{
			name:     "sha512 match",
			hash:     "pbkdf2:sha512:1000$abc$867c8bcc8730c95446a8b093c798235de33f5a5889f02da31b022444a24830d0d987ebffbe8bb809e6ed7be7e5e56e9540237faede2a6be3143cac739e558d8e",
			password: "senha-secreta",
			want:     true,
		},
		{name: "empty hash", hash: "", password: "x", want: false},
		{name: "unknown scheme", hash: "scrypt:32768:8:1$salt$abcd", password: "x", want: false},
		{name: "unknown digest", hash: "pbkdf2:md5:1000$salt$abcd", password: "x", want: false},
		{name: "missing iterations", hash: "pbkdf2:sha256$salt$abcd", password: "x", want: false},
		{name: "zero iterations", hash: "pbkdf2:sha256:0$salt$abcd", password: "x", want: false},
		{name: "non hex digest", hash: "pbkdf2:sha256:1000$salt$zz", password: "x", want: false},
		{name: "empty salt", hash: "pbkdf2:sha256:1000$$abcd", password: "x", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyPassword(tc.hash, tc.password))
		})
	}
}

func TestVerifyPassword_AcceptsBcrypt(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(string(hashed), "legacy"))
	assert.False(t, VerifyPassword(string(hashed), "other"))
}
