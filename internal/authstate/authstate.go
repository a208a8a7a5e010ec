// Package authstate holds the engine's view of "who is signed in right
// now" and fans out identity changes to the subsystems that care. It is the
// only coupling point between the auth provider and the rest of the engine.
package authstate

import (
	"sync"

	"kneexEngine/domain"
)

type ChangeHandler func(identity *domain.Identity)

type State struct {
	mu       sync.RWMutex
	current  *domain.Identity
	handlers []ChangeHandler
}

func New() *State {
	return &State{}
}

// Current returns the identity as of now, nil when anonymous.
func (s *State) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// OnChange registers a handler invoked on every identity transition.
func (s *State) OnChange(handler ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers = append(s.handlers, handler)
}

// Set records the new identity and notifies subscribers if it actually
// changed. Handlers run on the caller's goroutine, after the lock is
// released.
func (s *State) Set(identity *domain.Identity) {
	s.mu.Lock()

	if sameIdentity(s.current, identity) {
		s.mu.Unlock()
		return
	}

	s.current = identity
	handlers := make([]ChangeHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(identity)
	}
}

func sameIdentity(a, b *domain.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.UserID == b.UserID
}
