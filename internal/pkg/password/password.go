// Package password implements a delegating password encoder. Encoded hashes
// carry the algorithm id as a prefix, e.g. "{bcrypt}$2a$10$...", so stored
// credentials can move between algorithms without a migration.
package password

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAlgorithm = errors.New("password: unknown algorithm id")
	ErrInvalidHash      = errors.New("password: invalid hash format")
)

// Hasher hashes and verifies passwords for a single algorithm.
type Hasher interface {
	Hash(raw string) (string, error)
	Verify(raw, hash string) (bool, error)
}

// Encoder encodes with a default algorithm and verifies with whichever
// algorithm the stored hash names.
type Encoder struct {
	defaultID string
	hashers   map[string]Hasher
}

// NewEncoder returns an Encoder that writes {bcrypt} hashes and accepts
// {bcrypt} and {argon2id}.
func NewEncoder() *Encoder {
	return NewDelegatingEncoder(BcryptID, map[string]Hasher{
		BcryptID:   NewBcrypt(0),
		Argon2idID: NewArgon2id(),
	})
}

// NewDelegatingEncoder builds an Encoder from an explicit hasher set.
func NewDelegatingEncoder(defaultID string, hashers map[string]Hasher) *Encoder {
	if _, ok := hashers[defaultID]; !ok {
		panic(fmt.Sprintf("password: default id %q has no hasher", defaultID))
	}
	return &Encoder{defaultID: defaultID, hashers: hashers}
}

// Encode hashes raw with the default algorithm.
func (e *Encoder) Encode(raw string) (string, error) {
	hash, err := e.hashers[e.defaultID].Hash(raw)
	if err != nil {
		return "", err
	}
	return "{" + e.defaultID + "}" + hash, nil
}

// Matches reports whether raw matches the encoded hash.
func (e *Encoder) Matches(raw, encoded string) (bool, error) {
	id, hash, err := split(encoded)
	if err != nil {
		return false, err
	}
	h, ok := e.hashers[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return h.Verify(raw, hash)
}

func split(encoded string) (id, hash string, err error) {
	if !strings.HasPrefix(encoded, "{") {
		return "", "", ErrInvalidHash
	}
	end := strings.IndexByte(encoded, '}')
	if end < 2 {
		return "", "", ErrInvalidHash
	}
	return encoded[1:end], encoded[end+1:], nil
}
