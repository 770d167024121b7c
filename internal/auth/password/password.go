// Package password wraps bcrypt hashing for user credentials.
package password

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// Hash returns the bcrypt hash of a plaintext password.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether the plaintext matches the stored hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
