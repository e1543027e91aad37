package domain

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength applies to passwords set through the app.
	MinPasswordLength = 8
	passwordCost      = 10
)

// HashPassword validates and bcrypt-hashes plain.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash. An empty hash never matches.
func CheckPassword(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
