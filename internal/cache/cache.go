// Package cache memoizes derived statements. The derivation engine is a
// pure function of its raw input, so results are safe to cache by
// content fingerprint.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/finlens/finlens/internal/model"
)

// Backend stores derived statements by fingerprint
type Backend interface {
	Get(key string) (*model.Statement, bool)
	Set(key string, st *model.Statement, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Fingerprint generates a cache key from raw statement rows. Identical
// row content always yields the same key; field and row boundaries are
// delimited so shifted cell text cannot collide.
func Fingerprint(rows []model.RawRow) string {
	h := sha256.New()
	for _, row := range rows {
		h.Write([]byte(row.Label))
		h.Write([]byte{0x1f})
		h.Write([]byte(row.Prior))
		h.Write([]byte{0x1f})
		h.Write([]byte(row.Current))
		h.Write([]byte{0x1e})
	}
	return "finlens:v1:" + hex.EncodeToString(h.Sum(nil))
}
