package db

import (
	"sort"
	"strings"
	"sync"
)

// Store maps digests to objects.  Implementations are write-once:
// writing an object already present returns its digest and leaves the
// stored copy alone.
type Store interface {
	// Algo returns the digest algorithm the store addresses objects by.
	Algo() string
	// Exists reports whether digest is stored.
	Exists(digest string) (bool, error)
	// Read returns the object stored under digest, or an
	// *ObjectNotFoundError.
	Read(digest string) (Object, error)
	// Write stores obj and returns its digest.
	Write(obj Object) (string, error)
	// Match returns the stored digests starting with prefix, sorted.
	Match(prefix string) ([]string, error)
}

// MemStore is a Store kept in memory.  It holds uncompressed frames.
type MemStore struct {
	algo   string
	mu     sync.RWMutex
	frames map[string][]byte
}

// NewMemStore returns an empty MemStore addressing objects by algo.
// An empty algo means DefaultAlgo.
func NewMemStore(algo string) *MemStore {
	if algo == "" {
		algo = DefaultAlgo
	}
	return &MemStore{algo: algo, frames: make(map[string][]byte)}
}

func (s *MemStore) Algo() string {
	return s.algo
}

func (s *MemStore) Exists(digest string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.frames[digest]
	return ok, nil
}

func (s *MemStore) Read(digest string) (obj Object, err error) {
	s.mu.RLock()
	frame, ok := s.frames[digest]
	s.mu.RUnlock()
	if !ok {
		return nil, &ObjectNotFoundError{Digest: digest}
	}
	kind, payload, err := Unframe(digest, frame)
	if err != nil {
		return
	}
	return Decode(kind, payload)
}

func (s *MemStore) Write(obj Object) (digest string, err error) {
	digest, frame, err := Encode(s.algo, obj)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frames[digest]; !ok {
		s.frames[digest] = frame
	}
	return
}

func (s *MemStore) Match(prefix string) (digests []string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for digest := range s.frames {
		if strings.HasPrefix(digest, prefix) {
			digests = append(digests, digest)
		}
	}
	sort.Strings(digests)
	return
}

// Len returns the number of stored objects.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}
