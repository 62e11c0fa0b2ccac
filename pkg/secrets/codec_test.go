package secrets

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		expectedErr error
	}{
		{
			name: "chave com 32 bytes cria o codec",
			key:  testKey,
		},
		{
			name:        "chave curta é rejeitada",
			key:         "curta",
			expectedErr: ErrInvalidKeyLength,
		},
		{
			name:        "chave longa é rejeitada",
			key:         testKey + "extra",
			expectedErr: ErrInvalidKeyLength,
		},
		{
			name:        "chave vazia é rejeitada",
			key:         "",
			expectedErr: ErrInvalidKeyLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := NewCodec(tt.key)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, codec)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, codec)
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec(testKey)
	assert.NoError(t, err)

	plaintexts := []string{
		"EAABsbCS1iHgBAKZCZCQZBZB",
		"",
		"token com espaços e acentuação çãõ",
	}

	for _, plaintext := range plaintexts {
		encoded, err := codec.Encrypt(plaintext)
		assert.NoError(t, err)
		assert.Contains(t, encoded, ".")
		assert.NotContains(t, encoded, plaintext)

		decoded, err := codec.Decrypt(encoded)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, decoded)
	}
}

func TestCodecNonceIsNeverReused(t *testing.T) {
	codec, err := NewCodec(testKey)
	assert.NoError(t, err)

	first, err := codec.Encrypt("mesmo segredo")
	assert.NoError(t, err)

	second, err := codec.Encrypt("mesmo segredo")
	assert.NoError(t, err)

	// Ciphertexts do mesmo plaintext nunca coincidem porque o nonce é
	// sorteado a cada chamada
	assert.NotEqual(t, first, second)
}

func TestCodecDecryptFailures(t *testing.T) {
	codec, err := NewCodec(testKey)
	assert.NoError(t, err)

	encoded, err := codec.Encrypt("segredo protegido")
	assert.NoError(t, err)

	otherCodec, err := NewCodec("fedcba9876543210fedcba9876543210")
	assert.NoError(t, err)

	tampered := encoded[:len(encoded)-2] + "AA"
	if tampered == encoded {
		tampered = encoded[:len(encoded)-2] + "BB"
	}

	tests := []struct {
		name    string
		decrypt func() (string, error)
	}{
		{
			name:    "ciphertext adulterado",
			decrypt: func() (string, error) { return codec.Decrypt(tampered) },
		},
		{
			name:    "chave errada",
			decrypt: func() (string, error) { return otherCodec.Decrypt(encoded) },
		},
		{
			name:    "formato sem separador",
			decrypt: func() (string, error) { return codec.Decrypt(strings.ReplaceAll(encoded, ".", "")) },
		},
		{
			name:    "base64 inválido",
			decrypt: func() (string, error) { return codec.Decrypt("%%%.%%%") },
		},
		{
			name:    "valor vazio",
			decrypt: func() (string, error) { return codec.Decrypt("") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, err := tt.decrypt()

			assert.True(t, errors.Is(err, ErrIntegrity), "esperava ErrIntegrity, veio %v", err)
			assert.Empty(t, plaintext)
		})
	}
}
