package password

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// randomAlphabet excludes look-alike characters (0/O, 1/l/I)
	randomAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Validate checks if password meets requirements (minimum 8 characters)
func Validate(password string) bool {
	return len(password) >= 8
}

// GenerateRandom returns a random password of the given length, used for
// district admin provisioning. Returned to the caller once, never stored
// in plaintext.
func GenerateRandom(length int) (string, error) {
	if length < 8 {
		length = 12
	}
	out := make([]byte, length)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = randomAlphabet[n.Int64()]
	}
	return string(out), nil
}
