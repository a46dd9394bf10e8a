package subtitles

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"
)

// keySuffix completes the per-session secret into the full decryption key.
// The scheme is reverse engineered from observed traffic: the secret and the
// suffix concatenate to 32 hex characters which decode to an AES-128 key.
const keySuffix = "7fac1178830cfe0c"

// ivLength is the size of the base64-encoded initialization vector prefixed
// to every encrypted payload.
const ivLength = 24

// Decrypt recovers the timed-text JSON from an encrypted subtitle payload.
// The first 24 characters of raw are a base64-encoded 16-byte IV; the rest
// is base64 AES-128-CBC ciphertext under the key derived from secret. Any
// cipher, padding or text-decoding failure returns an error wrapping
// ErrDecryption; callers treat that as "no usable captions for this track".
func Decrypt(raw, secret string) (string, error) {
	if len(raw) < ivLength {
		return "", wrap(ErrDecryption, "", "", fmt.Errorf("payload too short: %d bytes", len(raw)))
	}

	key, err := hex.DecodeString(secret + keySuffix)
	if err != nil {
		return "", wrap(ErrDecryption, "", "", fmt.Errorf("derive key: %w", err))
	}

	iv, err := base64.StdEncoding.DecodeString(raw[:ivLength])
	if err != nil {
		return "", wrap(ErrDecryption, "", "", fmt.Errorf("decode iv: %w", err))
	}
	if len(iv) != aes.BlockSize {
		return "", wrap(ErrDecryption, "", "", fmt.Errorf("iv length %d, want %d", len(iv), aes.BlockSize))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(raw[ivLength:])
	if err != nil {
		return "", wrap(ErrDecryption, "", "", fmt.Errorf("decode ciphertext: %w", err))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", wrap(ErrDecryption, "", "", fmt.Errorf("ciphertext length %d not a block multiple", len(ciphertext)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", wrap(ErrDecryption, "", "", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = stripPKCS7(plaintext)
	if err != nil {
		return "", wrap(ErrDecryption, "", "", err)
	}
	if !utf8.Valid(plaintext) {
		return "", wrap(ErrDecryption, "", "", errors.New("plaintext is not valid UTF-8"))
	}
	return string(plaintext), nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-pad], nil
}
