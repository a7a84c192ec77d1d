package control

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-farm-monitor/internal/logger"
	appErrors "smart-farm-monitor/pkg/errors"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fakePublisher records publishes and can simulate a disconnected or
// failing broker.
type fakePublisher struct {
	connected  bool
	publishErr error
	published  [][]byte
	topics     []string
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, payload)
	f.topics = append(f.topics, topic)
	return nil
}

func (f *fakePublisher) IsConnected() bool {
	return f.connected
}

func TestBridgeToggle(t *testing.T) {
	pub := &fakePublisher{connected: true}
	bridge := NewBridge(NewStateStore(), pub, "esp32/control", 1)

	state, err := bridge.Toggle(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)

	state, err = bridge.Toggle(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOff, state)

	// Exactly one publish per toggle, on the control topic.
	require.Len(t, pub.published, 2)
	assert.Equal(t, "ON", string(pub.published[0]))
	assert.Equal(t, "OFF", string(pub.published[1]))
	assert.Equal(t, []string{"esp32/control", "esp32/control"}, pub.topics)
}

func TestBridgeToggleBrokerDisconnected(t *testing.T) {
	pub := &fakePublisher{connected: false}
	bridge := NewBridge(NewStateStore(), pub, "esp32/control", 1)

	_, err := bridge.Toggle(ActuatorLight)
	assert.ErrorIs(t, err, appErrors.ErrBrokerUnavailable)

	// State must not flip when the broker is down.
	state, err := bridge.Status(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOff, state)
	assert.Empty(t, pub.published)
}

func TestBridgeTogglePublishFailureKeepsState(t *testing.T) {
	pub := &fakePublisher{connected: true, publishErr: errors.New("puback timeout")}
	bridge := NewBridge(NewStateStore(), pub, "esp32/control", 1)

	state, err := bridge.Toggle(ActuatorLight)
	assert.Error(t, err)
	assert.Equal(t, StateOn, state)

	// The flipped state survives the failed publish.
	state, err = bridge.Status(ActuatorLight)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)
}

func TestBridgeToggleLocalSkipsBroker(t *testing.T) {
	pub := &fakePublisher{connected: false}
	bridge := NewBridge(NewStateStore(), pub, "esp32/control", 1)

	// Fan and watering flip in memory even with no broker.
	state, err := bridge.ToggleLocal(ActuatorFan)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)

	state, err = bridge.ToggleLocal(ActuatorWatering)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)

	assert.Empty(t, pub.published)
}

func TestBridgeSet(t *testing.T) {
	pub := &fakePublisher{connected: true}
	bridge := NewBridge(NewStateStore(), pub, "esp32/control", 1)

	require.NoError(t, bridge.Set(ActuatorWatering, StateOn))

	state, err := bridge.Status(ActuatorWatering)
	require.NoError(t, err)
	assert.Equal(t, StateOn, state)
	assert.Empty(t, pub.published)
}
