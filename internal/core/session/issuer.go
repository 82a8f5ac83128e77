package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session id schemes.
const (
	SchemeUserKey = "userkey"
	SchemeSigned  = "signed"
)

// DefaultPrefix is prepended to the user key by the userkey scheme.
const DefaultPrefix = "mes-"

// IDIssuer derives the identifier a caller presents on later calls.
type IDIssuer interface {
	Issue(userKey string) (string, error)
}

// UserKeyIssuer derives the id as Prefix+userKey. The result is stable across
// logins and can be guessed by anyone who knows the user key, which makes it
// unsuitable for multi-tenant deployments.
type UserKeyIssuer struct {
	Prefix string
}

func (i UserKeyIssuer) Issue(userKey string) (string, error) {
	if userKey == "" {
		return "", errors.New("session id: empty user key")
	}
	return i.Prefix + userKey, nil
}

// SignedIssuer issues an HS256 token bound to the user key. Every login yields
// a new identifier.
type SignedIssuer struct {
	Secret []byte
	Now    func() time.Time
}

func (i SignedIssuer) Issue(userKey string) (string, error) {
	if userKey == "" {
		return "", errors.New("session id: empty user key")
	}
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	claims := jwt.RegisteredClaims{
		Subject:  userKey,
		IssuedAt: jwt.NewNumericDate(now()),
		ID:       fmt.Sprintf("%d", now().UnixNano()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.Secret)
}

// NewIssuer returns the issuer for scheme. The signed scheme requires a secret.
func NewIssuer(scheme, secret string) (IDIssuer, error) {
	switch scheme {
	case "", SchemeUserKey:
		return UserKeyIssuer{Prefix: DefaultPrefix}, nil
	case SchemeSigned:
		if secret == "" {
			return nil, errors.New("session id: signed scheme requires a secret")
		}
		return SignedIssuer{Secret: []byte(secret)}, nil
	default:
		return nil, fmt.Errorf("session id: unknown scheme %q", scheme)
	}
}
