package kb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/oceanflux/array-om-sim/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventComponentAdded EventType = iota
	EventRatesUpdated
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type      EventType
	Component model.Component
}

// Store is an in-memory, thread-safe registry for the array under
// simulation: its components, grouped by ownership, and the vessel fleet
// available to the logistics collaborator.
type Store struct {
	mu sync.RWMutex

	components map[string]*model.Component
	order      []string

	subs []func(Event)
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		components: make(map[string]*model.Component),
	}
}

// AddComponent adds a new component. It returns an error if the ID already
// exists or the referenced owner device has not been added yet.
func (s *Store) AddComponent(c *model.Component) error {
	s.mu.Lock()

	if c.ID == "" {
		s.mu.Unlock()
		return fmt.Errorf("component with empty ID")
	}
	if _, exists := s.components[c.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("component with ID %q already exists", c.ID)
	}
	if c.Owner != "" {
		owner, ok := s.components[c.Owner]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("owner %q not found for component %q", c.Owner, c.ID)
		}
		if owner.Kind != model.ElementDevice {
			s.mu.Unlock()
			return fmt.Errorf("owner %q of component %q is not a device", c.Owner, c.ID)
		}
	}
	// store pointer so that reliability updates apply in-place
	s.components[c.ID] = c
	s.order = append(s.order, c.ID)

	event := Event{Type: EventComponentAdded, Component: *c}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Component returns the component with the given ID, or nil if not found.
func (s *Store) Component(id string) *model.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components[id]
}

// Components returns a snapshot slice of all components in insertion order.
func (s *Store) Components() []*model.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.Component, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.components[id])
	}
	return res
}

// Devices returns the device components sorted by ID.
func (s *Store) Devices() []*model.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*model.Component
	for _, c := range s.components {
		if c.Kind == model.ElementDevice {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// OwnedBy returns the subsystem components belonging to the given device,
// sorted by ID.
func (s *Store) OwnedBy(deviceID string) []*model.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []*model.Component
	for _, c := range s.components {
		if c.Owner == deviceID {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// ApplyRates overwrites annual failure rates from a reliability input and
// notifies subscribers once per updated component.
func (s *Store) ApplyRates(in model.ReliabilityInput) error {
	s.mu.Lock()

	var events []Event
	for id, rate := range in.AnnualRates {
		c, ok := s.components[id]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("component with ID %q not found for rate update", id)
		}
		c.AnnualFailureRate = rate
		if bd, ok := in.Breakdown[id]; ok {
			c.Breakdown = bd
		}
		events = append(events, Event{Type: EventRatesUpdated, Component: *c})
	}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		for _, event := range events {
			sub(event)
		}
	}
	return nil
}

// Subscribe registers a callback for store events. It returns an unsubscribe
// function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}
