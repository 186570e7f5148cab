package store

import (
	"sync"
)

// Store holds the current State and publishes every new snapshot to its
// subscribers. Dispatch is expected to be called from a single event loop;
// the mutex only guards concurrent readers.
type Store struct {
	state       State
	mutex       sync.RWMutex
	subscribers map[int]func(State)
	nextSubID   int
}

func NewStore() *Store {
	return &Store{
		state:       InitialState(),
		subscribers: make(map[int]func(State)),
	}
}

// Dispatch applies action and returns the resulting state
func (s *Store) Dispatch(action Action) State {
	s.mutex.Lock()
	s.state = Reduce(s.state, action)
	snapshot := s.state.Clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mutex.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
	return snapshot
}

func (s *Store) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn for every dispatched state and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.subscribers, id)
	}
}
