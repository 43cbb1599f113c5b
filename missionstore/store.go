package missionstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyroutex/surveyplanner/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventMissionStored EventType = iota
	EventMissionDeleted
)

// Event is emitted to subscribers when the stored mission set changes.
type Event struct {
	Type EventType
	ID   string
	Name string
}

// Record wraps a stored plan with its registry identity.
type Record struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	Plan      *model.MissionPlan `json:"plan"`
}

// Store is an in-memory, thread-safe registry of generated mission plans.
// Plans are immutable once stored; regeneration stores a new record.
type Store struct {
	mu sync.RWMutex

	missions map[string]*Record

	// Subscribers are keyed by token so that unsubscribing one never
	// disturbs the registration of another.
	subs    map[int]func(Event)
	nextSub int
}

// NewStore constructs an empty registry.
func NewStore() *Store {
	return &Store{
		missions: make(map[string]*Record),
		subs:     make(map[int]func(Event)),
	}
}

// Put stores a plan under a fresh UUID and notifies subscribers. The record
// is returned for the caller's response.
func (s *Store) Put(plan *model.MissionPlan) (*Record, error) {
	if plan == nil {
		return nil, fmt.Errorf("missionstore: nil plan")
	}

	rec := &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Plan:      plan,
	}

	s.mu.Lock()
	s.missions[rec.ID] = rec
	event := Event{Type: EventMissionStored, ID: rec.ID, Name: plan.Config.Name}
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return rec, nil
}

// Get returns the record with the given ID, or nil if not found.
func (s *Store) Get(id string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missions[id]
}

// List returns a snapshot of all records, oldest first. Ties on creation
// time break by ID so the order is deterministic.
func (s *Store) List() []*Record {
	s.mu.RLock()
	res := make([]*Record, 0, len(s.missions))
	for _, rec := range s.missions {
		res = append(res, rec)
	}
	s.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

// Delete removes a record and notifies subscribers. It reports whether the
// record existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	rec, ok := s.missions[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.missions, id)
	event := Event{Type: EventMissionDeleted, ID: id, Name: rec.Plan.Config.Name}
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
	return true
}

// Len returns the number of stored missions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.missions)
}

// Subscribe registers a callback for store events. It returns an idempotent
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.nextSub
	s.nextSub++
	s.subs[token] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, token)
	}
}

func (s *Store) snapshotSubsLocked() []func(Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}
