package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashServiceToken hashes a plaintext service token secret using bcrypt.
func HashServiceToken(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckServiceTokenHash compares a plaintext service token secret with a bcrypt hash.
func CheckServiceTokenHash(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
