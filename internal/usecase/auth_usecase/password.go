package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasherとPasswordVerifierのbcrypt実装
type BcryptPasswords struct {
	cost int
}

// cost<=0ならbcrypt.DefaultCost
func NewBcryptPasswords(cost int) *BcryptPasswords {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswords{cost: cost}
}

func (b *BcryptPasswords) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b *BcryptPasswords) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
