package auth

import "golang.org/x/crypto/bcrypt"

// HashOperatorPassword hashes a dashboard operator's plaintext password.
// A cost at or below zero falls back to bcrypt's default.
func HashOperatorPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyOperatorPassword checks a login attempt against the stored hash.
func VerifyOperatorPassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
