package hashes

import (
	"runtime"
	"sync"
	"weak"
)

// Store caches hashes of object values. Entries hold weak references and
// vanish once the value is unreachable; Delete and DeleteByHash evict early.
//
// Scheduling is single threaded, but cleanups run on the runtime's cleanup
// goroutine, so the maps are guarded by mu.
type Store struct {
	mu        sync.Mutex
	entries   map[Hash]*entry // hash -> first live holder
	refs      map[any]*ref    // weak.Pointer[T] -> hash
	suspended int
}

type entry struct {
	key   any
	alive func() bool
}

type ref struct {
	hash    Hash
	cleanup runtime.Cleanup
}

func NewStore() *Store {
	return &Store{
		entries: make(map[Hash]*entry),
		refs:    make(map[any]*ref),
	}
}

// Get returns the hash of *p, registering it on first request.
// A registered object hits the identity fast path without re-rendering.
func Get[T any](s *Store, p *T) Hash {
	if p == nil {
		return Of(nil)
	}
	key := weak.Make(p)

	s.mu.Lock()
	if r, ok := s.refs[key]; ok {
		s.mu.Unlock()
		return r.hash
	}
	s.mu.Unlock()

	h := Of(p)
	register(s, key, p, h)
	return h
}

// GetOrSet returns the live value registered under h, or registers the one create builds.
func GetOrSet[T any](s *Store, h Hash, create func() *T) *T {
	if p, ok := Lookup[T](s, h); ok {
		return p
	}
	p := create()
	register(s, weak.Make(p), p, h)
	return p
}

// Lookup returns the live value registered under h.
func Lookup[T any](s *Store, h Hash) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	if !ok {
		return nil, false
	}
	key, ok := e.key.(weak.Pointer[T])
	if !ok {
		return nil, false
	}
	p := key.Value()
	if p == nil {
		return nil, false
	}
	return p, true
}

// Registered reports whether *p has a cache entry.
func Registered[T any](s *Store, p *T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.refs[weak.Make(p)]
	return ok
}

func register[T any](s *Store, key weak.Pointer[T], p *T, h Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended > 0 {
		return
	}
	if _, ok := s.refs[key]; ok {
		return
	}
	s.refs[key] = &ref{
		hash: h,
		cleanup: runtime.AddCleanup(p, func(k any) {
			s.evict(k)
		}, any(key)),
	}
	if e, ok := s.entries[h]; ok && e.alive() {
		return
	}
	s.entries[h] = &entry{
		key: key,
		alive: func() bool {
			return key.Value() != nil
		},
	}
}

func (s *Store) evict(key any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
}

func (s *Store) remove(key any) {
	r, ok := s.refs[key]
	if !ok {
		return
	}
	delete(s.refs, key)
	r.cleanup.Stop()
	if e, ok := s.entries[r.hash]; ok && e.key == key {
		delete(s.entries, r.hash)
	}
}

// Delete evicts *p without waiting for the collector.
func Delete[T any](s *Store, p *T) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(weak.Make(p))
}

// DeleteByHash evicts h and every object registered under it.
func (s *Store) DeleteByHash(h Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, h)
	for key, r := range s.refs {
		if r.hash == h {
			delete(s.refs, key)
			r.cleanup.Stop()
		}
	}
}

// Suspend runs fn with registration disabled. Hashes are still computed.
// Used while a value is under construction.
func (s *Store) Suspend(fn func()) {
	s.mu.Lock()
	s.suspended++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.suspended--
		s.mu.Unlock()
	}()
	fn()
}

// Len returns the number of hashes with a live holder.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
