package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/aeopt/advisor/internal/store"
)

type Authenticator struct {
	Store *store.Store
}

func NewAuthenticator(s *store.Store) *Authenticator {
	return &Authenticator{Store: s}
}

// GenerateKey creates a new API key, returning the plaintext once and the
// persisted record.
func (a *Authenticator) GenerateKey(ctx context.Context, name string) (string, store.APIKeyRecord, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", store.APIKeyRecord{}, err
	}
	key := "ak-" + hex.EncodeToString(raw)

	id := hex.EncodeToString(raw[:8])
	prefix := key[:7]

	hash := sha256.Sum256([]byte(key))
	hashedKey := hex.EncodeToString(hash[:])

	record := store.APIKeyRecord{
		ID:        id,
		Name:      name,
		Prefix:    prefix,
		HashedKey: hashedKey,
		CreatedAt: time.Now(),
	}

	if err := a.Store.CreateAPIKey(ctx, record); err != nil {
		return "", store.APIKeyRecord{}, err
	}

	return key, record, nil
}

// Middleware checks the Authorization header against the stored keys. While
// no key exists the advisor is open, so a fresh deployment can bootstrap.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := a.Store.CountAPIKeys(r.Context())
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if n == 0 {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		key := parts[1]
		hash := sha256.Sum256([]byte(key))
		hashedKey := hex.EncodeToString(hash[:])

		keys, err := a.Store.ListAPIKeys(r.Context())
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		var found *store.APIKeyRecord
		for _, k := range keys {
			if k.HashedKey == hashedKey {
				found = &k
				break
			}
		}

		if found == nil {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		go func() {
			_ = a.Store.UpdateAPIKeyLastUsed(context.Background(), found.ID)
		}()

		next.ServeHTTP(w, r)
	})
}
