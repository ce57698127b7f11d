// internal/admingate/gate.go
package admingate

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"reclaim/internal/lostfound"

	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"
)

// Grant is the capability a successful authorization yields. It is passed
// explicitly to destructive operations; the zero Grant authorizes nothing.
type Grant struct {
	admin bool
}

// Admin reports whether the grant authorizes destructive operations.
func (g Grant) Admin() bool {
	return g.admin
}

// Gate validates a caller-supplied secret against a server-held value and
// issues Grants. There is no global state; handlers hold the Gate and thread
// the Grant through the call.
type Gate struct {
	hash    []byte
	salt    []byte
	limiter *rate.Limiter
}

// New derives the held hash from the configured secret. Failed attempts are
// rate limited to slow down guessing.
func New(secret string) (*Gate, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	return &Gate{
		hash:    argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, 32),
		salt:    salt,
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}, nil
}

// Authorize exchanges a secret for a Grant, or fails Unauthorized. Only
// failed attempts count against the limiter, so sustained legitimate admin
// traffic never locks itself out; once the failure budget is spent every
// attempt is refused until it refills.
func (g *Gate) Authorize(ctx context.Context, secret string) (Grant, error) {
	const op = "admingate.authorize"

	if g.limiter.Tokens() < 1 {
		return Grant{}, lostfound.Faultf(lostfound.KindUnauthorized, op, "too many failed attempts")
	}

	candidate := argon2.IDKey([]byte(secret), g.salt, 1, 64*1024, 4, 32)
	if subtle.ConstantTimeCompare(candidate, g.hash) != 1 {
		g.limiter.Allow()
		return Grant{}, lostfound.Faultf(lostfound.KindUnauthorized, op, "secret rejected")
	}
	return Grant{admin: true}, nil
}

// Require fails Unauthorized unless the grant carries admin capability.
// Gated operations call this before touching policy or state.
func Require(grant Grant, op string) error {
	if !grant.Admin() {
		return lostfound.Faultf(lostfound.KindUnauthorized, op, "admin grant required")
	}
	return nil
}

// GenerateSecret produces a random secret suitable for initial deployment.
func GenerateSecret() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
