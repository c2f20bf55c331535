package cache

import (
	"time"

	"github.com/finlens/finlens/internal/model"
)

// Store keys derived statements by the fingerprint of the raw rows
// they were derived from.
type Store struct {
	backend Backend
	ttl     time.Duration
}

// NewStore creates a statement store over the given cache backend
func NewStore(b Backend, ttl time.Duration) *Store {
	return &Store{backend: b, ttl: ttl}
}

// Get returns the cached derived statement for the given raw rows
func (s *Store) Get(rows []model.RawRow) (*model.Statement, bool) {
	return s.backend.Get(Fingerprint(rows))
}

// GetByKey returns a cached statement by its fingerprint, for callers
// that hold the fingerprint but not the raw rows.
func (s *Store) GetByKey(key string) (*model.Statement, bool) {
	return s.backend.Get(key)
}

// Put stores a derived statement under the fingerprint of its raw rows
func (s *Store) Put(rows []model.RawRow, st *model.Statement) error {
	return s.backend.Set(Fingerprint(rows), st, s.ttl)
}
