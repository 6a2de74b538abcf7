// Package memory provides an in-process DocumentStore, used for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"portal/internal/domain/repository"
)

// Store keeps documents in a nested map. Values are copied on the way in and out.
type Store struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{docs: make(map[string]map[string][]byte)}
}

var _ repository.DocumentStore = (*Store)(nil)

func (s *Store) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[namespace][key]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}

	return slices.Clone(value), nil
}

func (s *Store) Put(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.docs[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.docs[namespace] = ns
	}
	ns[key] = slices.Clone(value)

	return nil
}

func (s *Store) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.docs[namespace]; ok {
		delete(ns, key)
		if len(ns) == 0 {
			delete(s.docs, namespace)
		}
	}

	return nil
}

func (s *Store) Namespaces(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.docs))
	for namespace, ns := range s.docs {
		if _, ok := ns[key]; ok {
			out = append(out, namespace)
		}
	}
	slices.Sort(out)

	return out, nil
}
