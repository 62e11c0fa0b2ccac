package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const keyLength = 32

// ErrIntegrity indica que a autenticação do ciphertext falhou: dado corrompido
// ou chave errada. A credencial envolvida não pode ser usada.
var ErrIntegrity = errors.New("falha de integridade ao decifrar credencial")

// ErrInvalidKeyLength indica chave de cifragem com tamanho errado.
// Tratado como erro fatal de inicialização, nunca em runtime.
var ErrInvalidKeyLength = fmt.Errorf("a chave de cifragem deve ter exatamente %d bytes", keyLength)

// Codec cifra e decifra segredos de credenciais em repouso com AES-256-GCM.
// É construído uma única vez na inicialização e injetado em quem precisa,
// em vez de uma chave global escondida.
type Codec struct {
	gcm cipher.AEAD
}

// NewCodec cria o codec a partir da chave simétrica de 32 bytes
func NewCodec(key string) (*Codec, error) {
	if len(key) != keyLength {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a cifra: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar o GCM: %w", err)
	}

	return &Codec{gcm: gcm}, nil
}

// Encrypt cifra o plaintext e retorna base64(nonce) + "." + base64(ciphertext).
// O nonce é sorteado a cada chamada e nunca reutilizado.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("erro ao gerar nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nil, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(nonce) + "." + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decifra o valor produzido por Encrypt. Falha de autenticação
// retorna ErrIntegrity; não existe nenhum caminho de fallback em texto claro.
func (c *Codec) Decrypt(encoded string) (string, error) {
	nonceB64, cipherB64, found := strings.Cut(encoded, ".")
	if !found {
		return "", fmt.Errorf("%w: formato inválido", ErrIntegrity)
	}

	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return "", fmt.Errorf("%w: nonce inválido", ErrIntegrity)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext inválido", ErrIntegrity)
	}

	if len(nonce) != c.gcm.NonceSize() {
		return "", fmt.Errorf("%w: nonce com tamanho inesperado", ErrIntegrity)
	}

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrIntegrity
	}

	return string(plaintext), nil
}
