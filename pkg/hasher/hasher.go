package hasher

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"math/big"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations is the PBKDF2 iteration count used when callers pass 0.
const DefaultIterations = 10000

// DefaultKeyLength is the derived key length in bytes used when callers pass 0.
const DefaultKeyLength = 32

// saltAlphabet holds the characters used for salts and random strings.
// It deliberately avoids characters that need escaping in serialized snapshots.
const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Salt generates a random salt string of the given length.
func Salt(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	return randomString(length)
}

// RandomString generates a user-readable random string of the given length,
// suitable for generated one-time passwords.
func RandomString(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	return randomString(length)
}

// PBKDF2 derives a key from the password and salt using PBKDF2-HMAC-SHA256
// and returns it base64 encoded. Zero values for iterations and keyLength
// select the package defaults.
func PBKDF2(password, salt string, iterations, keyLength int) string {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if keyLength <= 0 {
		keyLength = DefaultKeyLength
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// Verify reports whether the password and salt derive the given PBKDF2 hash.
// The comparison is constant time.
func Verify(password, salt, hash string, iterations, keyLength int) bool {
	derived := PBKDF2(password, salt, iterations, keyLength)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

// Bcrypt hashes the password with the given cost. A cost of 0 selects
// bcrypt.DefaultCost.
func Bcrypt(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BcryptVerify reports whether the password matches the bcrypt hash.
func BcryptVerify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func randomString(length int) (string, error) {
	max := big.NewInt(int64(len(saltAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = saltAlphabet[n.Int64()]
	}
	return string(out), nil
}
