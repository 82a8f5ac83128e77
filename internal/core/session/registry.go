// Package session keeps the process-wide table of authenticated MES sessions.
//
// Sessions live until the process exits; there is no logout and no expiry.
// A successful login by the same user replaces that user's previous session.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/im7mortal/kmutex"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/ports"
)

type entry struct {
	session domain.Session
	client  ports.MESClient
}

// Registry maps session ids to sessions and the MES client that owns each
// session's cookies.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*entry
	byUser map[string]string

	issuer IDIssuer
	locks  *kmutex.Kmutex
	now    func() time.Time
}

// NewRegistry creates an empty registry. A nil issuer falls back to the
// userkey scheme.
func NewRegistry(issuer IDIssuer) *Registry {
	if issuer == nil {
		issuer = UserKeyIssuer{Prefix: DefaultPrefix}
	}
	return &Registry{
		byID:   make(map[string]*entry),
		byUser: make(map[string]string),
		issuer: issuer,
		locks:  kmutex.New(),
		now:    time.Now,
	}
}

// Lock serialises work on one user's session (login, fetches) and returns the
// matching unlock func. With the userkey scheme a user key maps to exactly
// one session id.
func (r *Registry) Lock(userKey string) func() {
	r.locks.Lock(userKey)
	return func() { r.locks.Unlock(userKey) }
}

// RecordLogin stores a fully populated authenticated session for userKey and
// returns it. Any earlier session of the same user is dropped.
func (r *Registry) RecordLogin(userKey string, profile domain.Profile, client ports.MESClient) (domain.Session, error) {
	if userKey == "" || client == nil {
		return domain.Session{}, errors.New("record login: user key and client are required")
	}
	profile.UserKey = userKey
	if !profile.Complete() {
		return domain.Session{}, errors.New("record login: incomplete profile")
	}

	id, err := r.issuer.Issue(userKey)
	if err != nil {
		return domain.Session{}, err
	}

	s := domain.Session{
		ID:            id,
		Authenticated: true,
		Profile:       profile,
		CreatedAt:     r.now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byUser[userKey]; ok && prev != id {
		delete(r.byID, prev)
	}
	r.byID[id] = &entry{session: s, client: client}
	r.byUser[userKey] = id
	return s, nil
}

// Validate reports whether sessionID names an existing authenticated session.
func (r *Registry) Validate(sessionID string) bool {
	_, _, ok := r.Lookup(sessionID)
	return ok
}

// IsAuthenticated is the interactive-surface check; it has the same meaning
// as Validate for the id the caller holds.
func (r *Registry) IsAuthenticated(sessionID string) bool {
	return r.Validate(sessionID)
}

// CurrentProfile returns the profile stored for sessionID.
func (r *Registry) CurrentProfile(sessionID string) (domain.Profile, bool) {
	s, _, ok := r.Lookup(sessionID)
	if !ok {
		return domain.Profile{}, false
	}
	return s.Profile, true
}

// Lookup returns a copy of the session and its client. The identifier must
// match exactly.
func (r *Registry) Lookup(sessionID string) (domain.Session, ports.MESClient, bool) {
	if sessionID == "" {
		return domain.Session{}, nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[sessionID]
	if !ok || !e.session.Authenticated {
		return domain.Session{}, nil, false
	}
	return e.session, e.client, true
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
