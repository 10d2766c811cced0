// Package cache is a file-based TTL cache for memory service responses.
//
// List endpoints (memory blocks, agents, suggestions) can be slow on
// large organizations, and CLI workflows repeat the same query within a
// short window. Entries are JSON files under the memctl cache directory,
// keyed by a SHA-256 digest of the request, so repeated invocations skip
// the network until the TTL lapses.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// entryExtension is the file extension for cache entries.
const entryExtension = ".json"

// Cache errors.
var (
	ErrMiss     = errors.New("cache miss")
	ErrExpired  = errors.New("cache entry expired")
	ErrEmptyKey = errors.New("cache key cannot be empty")
	ErrDisabled = errors.New("cache is disabled")
)

// Entry is one cached response with its expiry metadata.
type Entry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry's TTL has lapsed.
func (e *Entry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns how long ago the entry was written.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Key builds a deterministic cache key from an endpoint path and its
// query parameters. Parameters are sorted so equivalent requests collide.
func Key(endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Store is a file-backed cache. Safe for concurrent use.
type Store struct {
	directory  string
	enabled    bool
	ttlSeconds int

	mu sync.RWMutex
}

// NewStore creates a Store rooted at directory, creating it when needed.
// A disabled store accepts all calls and reports ErrDisabled.
func NewStore(directory string, enabled bool, ttlSeconds int) (*Store, error) {
	if !enabled {
		return &Store{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Store{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
	}, nil
}

// Enabled reports whether the store accepts entries.
func (s *Store) Enabled() bool {
	return s.enabled
}

// TTL returns the configured entry lifetime in seconds.
func (s *Store) TTL() int {
	return s.ttlSeconds
}

// Get returns the entry for key. Misses return ErrMiss; lapsed entries
// return ErrExpired and are removed in the background.
func (s *Store) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired() {
		go func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			_ = os.Remove(path)
		}()
		return nil, ErrExpired
	}

	return &entry, nil
}

// Set stores data under key, replacing any existing entry. Writes go to
// a temp file first and rename into place for atomicity.
func (s *Store) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry := Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.ttlSeconds) * time.Second),
	}

	encoded, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	path := s.entryPath(key)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, encoded, 0600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("committing cache entry: %w", err)
	}

	return nil
}

// Clear removes every entry from the store.
func (s *Store) Clear() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != entryExtension {
			continue
		}
		if err := os.Remove(filepath.Join(s.directory, entry.Name())); err != nil {
			return fmt.Errorf("removing cache entry %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Count returns the number of stored entries, expired ones included.
func (s *Store) Count() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == entryExtension {
			count++
		}
	}
	return count, nil
}

// entryPath maps a key to its file path. Keys from Key are hex digests;
// arbitrary keys get path separators replaced for filesystem safety.
func (s *Store) entryPath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safe+entryExtension)
}
