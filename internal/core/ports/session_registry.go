package ports

import "github.com/qfactory/mes-helper/internal/core/domain"

// SessionRegistry is the process-wide table of authenticated sessions.
type SessionRegistry interface {
	// Lock serialises login and queries for one user and returns the unlock func.
	Lock(userKey string) func()
	RecordLogin(userKey string, profile domain.Profile, client MESClient) (domain.Session, error)
	CurrentProfile(sessionID string) (domain.Profile, bool)
	// Lookup resolves an exact session id to its session and MES client.
	Lookup(sessionID string) (domain.Session, MESClient, bool)
	Count() int
}
