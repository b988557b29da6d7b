package cache

import (
	"sync"
	"time"
)

// TokenStore es un almacén clave-valor en proceso con expiración, usado para
// tokens de reseteo de contraseña. Cada entrada tiene TTL y es de un solo
// uso: Consume la elimina. El estado está acotado: las entradas vencidas se
// purgan en cada operación, no hay crecimiento sin límite ni goroutines de
// fondo.
type TokenStore struct {
	mu      sync.Mutex
	entries map[string]tokenEntry
	now     func() time.Time
}

type tokenEntry struct {
	value     string
	expiresAt time.Time
}

// NewTokenStore construye el almacén.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		entries: make(map[string]tokenEntry),
		now:     time.Now,
	}
}

// Put guarda value bajo token con vigencia ttl.
func (s *TokenStore) Put(token, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.entries[token] = tokenEntry{value: value, expiresAt: s.now().Add(ttl)}
}

// Consume devuelve el valor asociado y elimina la entrada. ok=false si el
// token no existe o ya venció.
func (s *TokenStore) Consume(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	e, ok := s.entries[token]
	if !ok {
		return "", false
	}
	delete(s.entries, token)
	return e.value, true
}

// Len cantidad de entradas vigentes.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	return len(s.entries)
}

func (s *TokenStore) purgeLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, k)
		}
	}
}
