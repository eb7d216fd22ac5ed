package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const BcryptID = "bcrypt"

type bcryptHasher struct {
	cost int
}

// NewBcrypt returns a bcrypt Hasher. cost <= 0 selects bcrypt.DefaultCost.
func NewBcrypt(cost int) Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

func (b bcryptHasher) Hash(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b bcryptHasher) Verify(raw, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}
