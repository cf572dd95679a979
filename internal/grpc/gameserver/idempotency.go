package gameserver

import (
	"sync"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	idempotencyTTL        = 24 * time.Hour
	idempotencyMaxEntries = 1000
)

// idempotencyEntry stores a cached response with timestamp
type idempotencyEntry struct {
	response  *structpb.Struct
	createdAt time.Time
}

// IdempotencyManager caches SubmitAction responses of one session by client key
type IdempotencyManager struct {
	cache map[string]*idempotencyEntry
	mu    sync.RWMutex
}

// NewIdempotencyManager creates a new idempotency manager
func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[string]*idempotencyEntry),
	}
}

// Check returns a copy of the cached response for key, or nil
func (im *IdempotencyManager) Check(key string) *structpb.Struct {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[key]
	if !exists || time.Since(entry.createdAt) > idempotencyTTL {
		return nil
	}
	return proto.Clone(entry.response).(*structpb.Struct)
}

// Store caches resp under key
func (im *IdempotencyManager) Store(key string, resp *structpb.Struct) {
	if key == "" || resp == nil {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[key] = &idempotencyEntry{
		response:  proto.Clone(resp).(*structpb.Struct),
		createdAt: time.Now(),
	}

	if len(im.cache) > idempotencyMaxEntries {
		im.cleanupOldEntriesLocked(time.Now())
	}
}

// Len returns the number of cached entries
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked removes expired entries. Must be called with mu held.
func (im *IdempotencyManager) cleanupOldEntriesLocked(now time.Time) {
	cutoff := now.Add(-idempotencyTTL)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
