package util

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCiphertext is returned for values not in "ivhex:ciphertexthex" form
// or that fail to decrypt.
var ErrInvalidCiphertext = errors.New("invalid encrypted text")

// KeyFromPassword derives the AES-256 key as the SHA-256 of password.
func KeyFromPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// Decrypt reverses Encrypt: AES-256-CBC with PKCS#7 padding, encoded as
// hex(iv) + ":" + hex(ciphertext).
func Decrypt(text, password string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(text, ":")
	if !ok || strings.Contains(ctHex, ":") {
		return "", fmt.Errorf("%w: expected iv:ciphertext", ErrInvalidCiphertext)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: invalid IV", ErrInvalidCiphertext)
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext length", ErrInvalidCiphertext)
	}

	block, err := aes.NewCipher(KeyFromPassword(password))
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Encrypt is the dashboard-side counterpart of Decrypt, used by tools and tests.
func Encrypt(plain, password string) (string, error) {
	block, err := aes.NewCipher(KeyFromPassword(password))
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating IV: %w", err)
	}
	padded := pad([]byte(plain))
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrInvalidCiphertext)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", ErrInvalidCiphertext)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrInvalidCiphertext)
		}
	}
	return b[:len(b)-n], nil
}
