package session

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/google/uuid"
)

// Session holds the credential once; everything else reads it from here.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// New builds a session for token. Fields of login override what the token's
// claims say.
func New(token string, login Profile) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Profile:   ProfileFromToken(token).Merge(login),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiryFromToken(token),
	}
}

// Credential implements transport.CredentialSource.
func (s *Session) Credential() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// OwnerID keys what a passenger keeps across logins: the account's user id,
// or the session id when the login carried none.
func (s *Session) OwnerID() string {
	if s.Profile.UserID != "" {
		return s.Profile.UserID
	}
	return s.ID
}

// Expired reports whether the credential's exp claim has passed. Sessions
// without one never expire on their own.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ExpiredCredential is the error Store.Save returns for a session whose
// credential has already expired.
func ExpiredCredential() error {
	return domain.NewError(domain.KindAuthentication, "credential already expired")
}

// Store keeps sessions between requests. Get returns nil, nil for an unknown
// or expired id.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// MemoryStore is a Store for a single process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session *Session
	savedAt time.Time
}

// NewMemoryStore returns a store whose entries live for ttl; zero keeps them
// until deleted or until the credential expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s.Expired(m.now()) {
		return ExpiredCredential()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memoryEntry{session: s, savedAt: m.now()}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	now := m.now()
	if e.session.Expired(now) || (m.ttl > 0 && now.Sub(e.savedAt) >= m.ttl) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, nil
	}
	return e.session, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
