// Package cache provides the report-result cache: computed report payloads
// keyed by the full query, with TTL expiry. Two backends exist, an
// in-process LRU and Redis; both degrade to a miss on any backend trouble so
// a cache failure never fails a report.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Store is the report-result cache contract. Values are opaque encoded
// payloads; Get returns false on miss, expiry, or backend error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Delete(ctx context.Context, key string)
	Close() error
}

// Key derives a stable cache key from the parts that identify a report
// query. Parts are order-sensitive; the hash keeps keys short and free of
// user-controlled characters.
func Key(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "|")))
	return "report:" + hex.EncodeToString(h.Sum(nil))[:32]
}
