package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDecryption is returned whenever ciphertext cannot be decrypted:
// malformed hex, wrong length, bad padding, or a placeholder value.
var ErrDecryption = errors.New("decryption failed")

// absentValue is the literal some legacy records carry where the field was
// never set. It must fail fast instead of being fed to the block cipher.
const absentValue = "undefined"

// Cipher encrypts and decrypts a single sensitive field. Implementations
// must be deterministic so the encrypted column supports equality lookup.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// FieldCipher is an AES-256-CBC Cipher with a fixed process-wide key and IV.
// Because the IV is shared across all records, equal plaintexts produce equal
// ciphertexts; that leaks equality to anyone with storage read access and is
// an accepted trade-off for lookup capability.
type FieldCipher struct {
	block cipher.Block
	iv    []byte
}

// NewFieldCipher creates a cipher from a 32-byte key and a 16-byte IV.
func NewFieldCipher(key, iv []byte) (*FieldCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("field cipher key must be 32 bytes, got %d", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("field cipher IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &FieldCipher{block: block, iv: iv}, nil
}

// Encrypt returns the hex-encoded CBC ciphertext of plaintext.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	padded := pad([]byte(plaintext))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It fails with ErrDecryption on anything not
// produced by this scheme and never returns garbage as success.
func (c *FieldCipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" || ciphertext == absentValue {
		return "", fmt.Errorf("%w: value absent", ErrDecryption)
	}
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: malformed hex", ErrDecryption)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length not a block multiple", ErrDecryption)
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)

	plain, err := unpad(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return string(plain), nil
}

// pad applies PKCS#7 padding up to the AES block size.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips and verifies PKCS#7 padding.
func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, errors.New("bad padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("bad padding")
		}
	}
	return data[:len(data)-n], nil
}
