package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStoreDefaultsOff(t *testing.T) {
	store := NewStateStore()

	for _, name := range []string{ActuatorLight, ActuatorFan, ActuatorWatering} {
		state, err := store.Get(name)
		require.NoError(t, err)
		assert.Equal(t, StateOff, state, "actuator %s should boot OFF", name)
	}
}

func TestStateStoreToggleAlternates(t *testing.T) {
	store := NewStateStore()

	state, err := store.Toggle(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)

	state, err = store.Toggle(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOff, state)

	// Other actuators are untouched.
	state, err = store.Get(ActuatorFan)
	require.NoError(t, err)
	assert.Equal(t, StateOff, state)
}

func TestStateStoreUnknownActuator(t *testing.T) {
	store := NewStateStore()

	_, err := store.Get("heater")
	assert.ErrorIs(t, err, ErrUnknownActuator)

	_, err = store.Toggle("heater")
	assert.ErrorIs(t, err, ErrUnknownActuator)

	err = store.Set("heater", StateOn)
	assert.ErrorIs(t, err, ErrUnknownActuator)
}

func TestStateStoreSetRejectsInvalidState(t *testing.T) {
	store := NewStateStore()

	assert.Error(t, store.Set(ActuatorLight, "on"))
	assert.Error(t, store.Set(ActuatorLight, "HIGH"))
	assert.NoError(t, store.Set(ActuatorLight, StateOn))

	state, err := store.Get(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)
}

func TestStateStoreConcurrentToggles(t *testing.T) {
	store := NewStateStore()

	// An even number of concurrent toggles must land back on OFF.
	const toggles = 100
	var wg sync.WaitGroup
	wg.Add(toggles)
	for i := 0; i < toggles; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Toggle(ActuatorWatering)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := store.Get(ActuatorWatering)
	require.NoError(t, err)
	assert.Equal(t, StateOff, state)
}
