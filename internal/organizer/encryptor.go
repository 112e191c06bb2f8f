package organizer

// Encryptor encrypts backup snapshot payloads with a public key. Decryption
// requires unlocking the private key with a passphrase first, so saving a
// backup never prompts while reverting one does.
type Encryptor interface {
	// Encrypt returns the ciphertext for plaintext using the stored public key.
	Encrypt(plaintext []byte) ([]byte, error)

	// Unlock decrypts the private key with the passphrase and returns a
	// context able to decrypt payloads.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether the key material is in place.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked identity for decrypting payloads.
type DecryptionContext interface {
	Decrypt(ciphertext []byte) ([]byte, error)
}
