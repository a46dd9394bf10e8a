package subtitles_test

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"crd/internal/subtitles"
)

const (
	testSecret = "0123456789abcdef"
	testSuffix = "7fac1178830cfe0c"
)

// encryptFixture builds a payload the way the upstream service does: a
// base64 16-byte IV followed by base64 AES-128-CBC ciphertext under the key
// hex-decoded from secret+suffix, with PKCS#7 padding.
func encryptFixture(t *testing.T, plaintext, secret string) string {
	t.Helper()

	key, err := hex.DecodeString(secret + testSuffix)
	if err != nil {
		t.Fatalf("decode key: %v", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	iv := []byte("0102030405060708") // fixed for reproducibility
	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := []byte(plaintext)
	for i := 0; i < pad; i++ {
		padded = append(padded, byte(pad))
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(iv) + base64.StdEncoding.EncodeToString(ciphertext)
}

func TestDecryptRecoversPlaintext(t *testing.T) {
	plaintext := `{"vde":[{"startTime":1.5,"endTime":3.0,"text":"Hallo"}]}`
	raw := encryptFixture(t, plaintext, testSecret)

	got, err := subtitles.Decrypt(raw, testSecret)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != plaintext {
		t.Fatalf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestDecryptWrongSecretNeverYieldsPlaintext(t *testing.T) {
	plaintext := `{"vde":[]}`
	raw := encryptFixture(t, plaintext, testSecret)

	got, err := subtitles.Decrypt(raw, "fedcba9876543210")
	if err == nil && got == plaintext {
		t.Fatal("decryption with wrong secret recovered the plaintext")
	}
	if err != nil && !errors.Is(err, subtitles.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

func TestDecryptRejectsInvalidSecret(t *testing.T) {
	raw := encryptFixture(t, "payload", testSecret)
	if _, err := subtitles.Decrypt(raw, "not-hex-at-all!!"); !errors.Is(err, subtitles.ErrDecryption) {
		t.Fatalf("expected ErrDecryption for non-hex secret, got %v", err)
	}
}

func TestDecryptRejectsCorruptedPayload(t *testing.T) {
	cases := map[string]string{
		"too short":      "QUJD",
		"bad iv base64":  "!!!!!!!!!!!!!!!!!!!!!!!!QUJDREVGR0hJSktMTU5PUA==",
		"bad ciphertext": encryptFixture(t, "payload", testSecret)[:24] + "@@not-base64@@",
	}
	for name, raw := range cases {
		if _, err := subtitles.Decrypt(raw, testSecret); !errors.Is(err, subtitles.ErrDecryption) {
			t.Fatalf("%s: expected ErrDecryption, got %v", name, err)
		}
	}
}

func TestDecryptRejectsTruncatedCiphertext(t *testing.T) {
	raw := encryptFixture(t, "a longer plaintext to get several blocks", testSecret)
	// Drop the final base64 character so the ciphertext no longer decodes to
	// a whole number of blocks.
	if _, err := subtitles.Decrypt(raw[:len(raw)-4], testSecret); !errors.Is(err, subtitles.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}
