package encryption

import (
	"bytes"
	"fmt"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// testPrefix marks payloads produced by the TestEncryptor.
var testPrefix = []byte("test-enc:")

// TestEncryptor is a reversible stand-in for tests: it prefixes payloads with
// a marker instead of encrypting. Never use outside tests.
type TestEncryptor struct{}

var _ organizer.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor { return &TestEncryptor{} }

func (*TestEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	return append(append([]byte{}, testPrefix...), plaintext...), nil
}

func (*TestEncryptor) Unlock(string) (organizer.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (*TestEncryptor) IsConfigured() bool { return true }

// TestDecryptionContext undoes TestEncryptor.Encrypt.
type TestDecryptionContext struct{}

var _ organizer.DecryptionContext = (*TestDecryptionContext)(nil)

func (*TestDecryptionContext) Decrypt(ciphertext []byte) ([]byte, error) {
	if !bytes.HasPrefix(ciphertext, testPrefix) {
		return nil, fmt.Errorf("payload was not produced by the test encryptor")
	}
	return append([]byte{}, ciphertext[len(testPrefix):]...), nil
}
