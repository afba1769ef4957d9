package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)
	return h
}

func TestHashLegacy_KnownVectors(t *testing.T) {
	h := testHasher(t)

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"password", "password", "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.HashLegacy(tt.password))
			assert.Equal(t, h.HashLegacy(tt.password), h.HashLegacy(tt.password))
			assert.True(t, h.VerifyLegacy(tt.password, tt.want))
			assert.False(t, h.VerifyLegacy(tt.password+"x", tt.want))
		})
	}
}

func TestHashModern_SaltedAndVerifiable(t *testing.T) {
	h := testHasher(t)
	password := "Password1!"

	first, err := h.HashModern(password)
	require.NoError(t, err)
	second, err := h.HashModern(password)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "random salt must change the digest")
	assert.True(t, h.IsModern(first))
	assert.False(t, h.IsModern(h.HashLegacy(password)))

	parts := strings.Split(first, "$")
	require.Len(t, parts, 5)
	assert.Equal(t, argon2Variant, parts[0])
	assert.Equal(t, argon2Version, parts[1])
	assert.Equal(t, "m=8192,t=1,p=1", parts[2])

	for _, encoded := range []string{first, second} {
		ok, err := h.Verify(password, encoded)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = h.Verify("wrong", encoded)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestVerify_UsesEmbeddedParameters(t *testing.T) {
	weak := testHasher(t)
	encoded, err := weak.HashModern("secret-value")
	require.NoError(t, err)

	strong, err := NewPasswordHasher(DefaultArgon2Config())
	require.NoError(t, err)

	ok, err := strong.Verify("secret-value", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_InvalidInputs(t *testing.T) {
	h := testHasher(t)

	tests := []struct {
		name    string
		encoded string
		wantErr bool
	}{
		{"empty digest", "", false},
		{"legacy digest", h.HashLegacy("x"), true},
		{"wrong variant", "argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA", true},
		{"wrong version", "argon2id$v=16$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA", true},
		{"bad params", "argon2id$v=19$m=8192,t=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA", true},
		{"bad salt", "argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaGhhc2hoYXNoaGFzaA", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("x", tt.encoded)
			assert.False(t, ok)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPasswordHasher_RejectsWeakConfig(t *testing.T) {
	cfg := DefaultArgon2Config()
	cfg.Memory = 1024

	_, err := NewPasswordHasher(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidConfig)
}
