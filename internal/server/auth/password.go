package auth

import "golang.org/x/crypto/bcrypt"

// MaxSecretBytes is the longest secret bcrypt accepts.
const MaxSecretBytes = 72

// dummyHash is compared against when the identity does not exist, so that a
// failed lookup costs about as much as a failed password check.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("carescan-timing-equalizer"), bcrypt.DefaultCost)

// HashSecret returns the bcrypt hash of secret.
func HashSecret(secret []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
}

// CompareSecret reports whether secret matches hash. bcrypt salts every
// hash and compares in constant time. An empty hash never matches but still
// performs a comparison.
func CompareSecret(hash, secret []byte) bool {
	if len(hash) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyHash, secret)
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, secret) == nil
}
