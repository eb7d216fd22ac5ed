package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestEncoder_EncodeProducesBcryptPrefix(t *testing.T) {
	enc := NewDelegatingEncoder(BcryptID, map[string]Hasher{BcryptID: NewBcrypt(bcrypt.MinCost)})

	hash, err := enc.Encode("1234567890")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(hash, "{bcrypt}$2a$") {
		t.Fatalf("unexpected encoding: %s", hash)
	}

	ok, err := enc.Matches("1234567890", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = enc.Matches("wrong", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestEncoder_VerifiesArgon2id(t *testing.T) {
	enc := NewEncoder()
	hash, err := NewArgon2id().Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := enc.Matches("s3cret", "{argon2id}"+hash)
	if err != nil || !ok {
		t.Fatalf("expected argon2id match, got ok=%v err=%v", ok, err)
	}
	ok, _ = enc.Matches("nope", "{argon2id}"+hash)
	if ok {
		t.Fatal("expected argon2id mismatch")
	}
}

func TestEncoder_UnknownAlgorithm(t *testing.T) {
	enc := NewEncoder()
	if _, err := enc.Matches("x", "{md5}abc"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestEncoder_MissingPrefix(t *testing.T) {
	enc := NewEncoder()
	for _, encoded := range []string{"$2a$10$abc", "{}abc", ""} {
		if _, err := enc.Matches("x", encoded); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("%q: expected ErrInvalidHash, got %v", encoded, err)
		}
	}
}

func TestArgon2id_RejectsMalformedHash(t *testing.T) {
	h := NewArgon2id()
	if _, err := h.Verify("x", "$argon2id$v=19$bad"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
