package domain

import (
	"errors"
	"strings"
)

var ErrAnimeNotFound = errors.New("anime not found")
var ErrInvalidAnimeName = errors.New("invalid name")

// Anime is the single managed record. ID is zero until the store assigns one.
type Anime struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// IsNew reports whether the record has not been persisted yet.
func (a Anime) IsNew() bool {
	return a.ID == 0
}

// HasValidName reports whether Name contains at least one non-space character.
func (a Anime) HasValidName() bool {
	return strings.TrimSpace(a.Name) != ""
}
