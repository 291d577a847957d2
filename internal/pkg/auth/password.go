package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used until SetBcryptCost is called
const DefaultBcryptCost = 12

var bcryptCost = DefaultBcryptCost

// SetBcryptCost changes the hashing cost; values outside bcrypt's range are ignored
func SetBcryptCost(cost int) {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		bcryptCost = cost
	}
}

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a hash with a plain text password.
// An empty hash is an unusable password and never matches.
func CheckPassword(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
