package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/felixgeelhaar/flowforge/internal/errors"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLen     = 32
)

// TokenAuth authenticates API requests against a pre-derived PBKDF2
// hash of the token. The plaintext token is never stored server-side.
type TokenAuth struct {
	hash []byte
	salt []byte
}

// NewTokenAuth builds a TokenAuth from hex-encoded hash and salt, as
// stored in the configuration file.
func NewTokenAuth(hexHash, hexSalt string) (*TokenAuth, error) {
	hash, err := hex.DecodeString(hexHash)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "auth.token is not valid hex", err)
	}
	salt, err := hex.DecodeString(hexSalt)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "auth.salt is not valid hex", err)
	}
	if len(hash) != pbkdf2KeyLen {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "auth.token must be a 32-byte PBKDF2 hash")
	}
	return &TokenAuth{hash: hash, salt: salt}, nil
}

// DeriveToken derives the stored hash for a plaintext token and salt.
// Used by setup tooling to produce config values.
func DeriveToken(token string, salt []byte) []byte {
	return pbkdf2.Key([]byte(token), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
}

// Verify reports whether the presented token matches.
func (a *TokenAuth) Verify(token string) bool {
	derived := DeriveToken(token, a.salt)
	return subtle.ConstantTimeCompare(derived, a.hash) == 1
}

// Middleware rejects requests without a valid bearer token.
func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized,
				errors.New(errors.ErrCodeTokenMissing, "missing Authorization header").
					WithSuggestion("Pass 'Authorization: Bearer <token>'"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !a.Verify(token) {
			writeError(w, http.StatusUnauthorized, errors.NewTokenInvalidError())
			return
		}

		next.ServeHTTP(w, r)
	})
}
