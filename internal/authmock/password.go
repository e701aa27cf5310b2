package authmock

import "golang.org/x/crypto/bcrypt"

// hashPassword uses the minimum bcrypt cost; the mock favours test speed.
func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
