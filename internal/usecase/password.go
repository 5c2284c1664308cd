package usecase

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// passwordMatches checks password against a stored credential. Accounts
// created before hashing hold the plain password, which is compared in
// constant time; legacy reports that case so the caller can rehash.
func passwordMatches(stored, password string) (ok, legacy bool) {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1, true
}
