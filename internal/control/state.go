package control

import (
	"fmt"
	"sync"
)

// Actuator names addressable through the control endpoints.
const (
	ActuatorLight    = "light"
	ActuatorFan      = "fan"
	ActuatorWatering = "watering"
)

// Valid wire states. The firmware only understands these two payloads.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// ErrUnknownActuator is returned for any actuator name outside the fixed
// set above.
var ErrUnknownActuator = fmt.Errorf("unknown actuator")

// StateStore holds the last commanded state per actuator. It is
// command-side only: it records what was sent, not what the hardware
// acknowledged. All actuators start OFF at process boot.
type StateStore struct {
	mu     sync.Mutex
	states map[string]string
}

func NewStateStore() *StateStore {
	return &StateStore{
		states: map[string]string{
			ActuatorLight:    StateOff,
			ActuatorFan:      StateOff,
			ActuatorWatering: StateOff,
		},
	}
}

// Get returns the last commanded state for name.
func (s *StateStore) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownActuator, name)
	}
	return state, nil
}

// Toggle flips the stored state and returns the new value. The flip is
// atomic under the store mutex so concurrent toggles serialize.
func (s *StateStore) Toggle(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownActuator, name)
	}

	next := StateOn
	if state == StateOn {
		next = StateOff
	}
	s.states[name] = next
	return next, nil
}

// Set stores an explicit state.
func (s *StateStore) Set(name, state string) error {
	if state != StateOn && state != StateOff {
		return fmt.Errorf("invalid state %q", state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.states[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownActuator, name)
	}
	s.states[name] = state
	return nil
}
