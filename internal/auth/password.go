package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost matches the work factor the platform has always used for
// stored credentials.
const hashCost = 10

// HashPassword produces a salted one-way hash of the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares plaintext against a stored hash. A mismatch
// is a false result, not an error; errors are reserved for malformed
// hash input.
func VerifyPassword(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
