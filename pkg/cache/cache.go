// Package cache provides a small key/value store backed by Redis, with an
// in-process memory fallback when Redis is unreachable. Values are JSON
// encoded so any serialisable type can be stored.
//
// The session store is built on top of this package, so the fallback keeps
// local development and tests working without a running Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloomcart/bloomcart/config"
)

var (
	RDB *redis.Client
	Ctx = context.Background()

	memMu sync.RWMutex
	mem   = map[string]memEntry{}
)

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// Connect initialises the Redis client and verifies it with a ping.
// On failure the client is discarded and the memory store takes over;
// the error is returned so the caller can log it.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get loads the value stored under key into dest.
// Returns false on miss, expiry, or decode failure.
func Get(key string, dest interface{}) bool {
	if RDB != nil {
		val, err := RDB.Get(Ctx, key).Result()
		if err != nil {
			return false
		}
		return json.Unmarshal([]byte(val), dest) == nil
	}

	memMu.RLock()
	entry, ok := mem[key]
	memMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return false
	}
	return json.Unmarshal(entry.data, dest) == nil
}

// Set stores value under key with the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}

	if RDB != nil {
		return RDB.Set(Ctx, key, data, ttl).Err()
	}

	memMu.Lock()
	mem[key] = memEntry{data: data, expiresAt: time.Now().Add(ttl)}
	memMu.Unlock()
	return nil
}

// Del removes a key from the store.
func Del(key string) error {
	if RDB != nil {
		return RDB.Del(Ctx, key).Err()
	}

	memMu.Lock()
	delete(mem, key)
	memMu.Unlock()
	return nil
}
