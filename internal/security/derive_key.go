package security

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var errEmptySecret = errors.New("secret must not be empty")

// DeriveKey expands the application secret into an independent key for one
// purpose, so session and share tokens never share signing keys.
func DeriveKey(secret []byte, purpose string, size int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errEmptySecret
	}
	if size <= 0 {
		return nil, errInvalidLength
	}

	reader := hkdf.New(sha256.New, secret, nil, []byte("lunacycle/"+purpose))
	key := make([]byte, size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
