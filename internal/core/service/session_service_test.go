package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

type stubSessionStore struct {
	sessions map[string]domain.Session
	purged   []time.Time
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.sessions[session.Token] = *session
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	if _, ok := s.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

func (s *stubSessionStore) PurgeExpired(_ context.Context, now time.Time) error {
	s.purged = append(s.purged, now)
	return nil
}

func TestSessionService_CreateAndValidate(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, time.Minute)
	user := &domain.User{Username: "devdojo", Roles: []domain.Role{domain.RoleUser}}

	session, err := svc.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(session.Token) != 2*sessionTokenBytes {
		t.Fatalf("unexpected token length %d", len(session.Token))
	}

	got, err := svc.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if got.Username != "devdojo" || !got.Principal().HasRole(domain.RoleUser) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionService_Validate_Expired(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, time.Minute)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	session, _ := svc.Create(context.Background(), &domain.User{Username: "devdojo"})

	svc.now = func() time.Time { return start.Add(time.Minute) }
	if _, err := svc.Validate(context.Background(), session.Token); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := store.sessions[session.Token]; ok {
		t.Fatal("expired session should be removed")
	}
}

func TestSessionService_Validate_Unknown(t *testing.T) {
	svc := NewSessionService(newStubSessionStore(), time.Minute)

	if _, err := svc.Validate(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for empty token, got %v", err)
	}
}

func TestSessionService_Revoke_IsIdempotent(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, time.Minute)
	session, _ := svc.Create(context.Background(), &domain.User{Username: "devdojo"})

	if err := svc.Revoke(context.Background(), session.Token); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if err := svc.Revoke(context.Background(), session.Token); err != nil {
		t.Fatalf("second Revoke returned error: %v", err)
	}
}

func TestSessionService_Create_RequiresUser(t *testing.T) {
	svc := NewSessionService(newStubSessionStore(), time.Minute)

	if _, err := svc.Create(context.Background(), nil); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionService_PurgeExpired_PassesClock(t *testing.T) {
	store := newStubSessionStore()
	svc := NewSessionService(store, time.Minute)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.PurgeExpired(context.Background()); err != nil {
		t.Fatalf("PurgeExpired returned error: %v", err)
	}
	if len(store.purged) != 1 || !store.purged[0].Equal(fixed) {
		t.Fatalf("unexpected purge calls: %v", store.purged)
	}
}
