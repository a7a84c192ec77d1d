package control

import (
	"fmt"

	"go.uber.org/zap"

	"smart-farm-monitor/internal/logger"
	appErrors "smart-farm-monitor/pkg/errors"
)

// Publisher is the broker surface the bridge needs; pkg/mqtt.Client
// satisfies it.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	IsConnected() bool
}

// Bridge translates actuator commands into MQTT publishes on the shared
// control topic. State is flipped before publishing and is not rolled
// back when the broker rejects the message: the stored value reflects
// the operator's intent, and the next successful command resynchronizes
// the hardware.
type Bridge struct {
	store     *StateStore
	publisher Publisher
	topic     string
	qos       byte
}

func NewBridge(store *StateStore, publisher Publisher, topic string, qos byte) *Bridge {
	return &Bridge{
		store:     store,
		publisher: publisher,
		topic:     topic,
		qos:       qos,
	}
}

// Status returns the last commanded state for name.
func (b *Bridge) Status(name string) (string, error) {
	return b.store.Get(name)
}

// Toggle flips name and publishes the new state. A disconnected broker
// fails before the flip; a failed publish after the flip keeps the
// flipped state and returns the error.
func (b *Bridge) Toggle(name string) (string, error) {
	if !b.publisher.IsConnected() {
		return "", appErrors.ErrBrokerUnavailable
	}

	next, err := b.store.Toggle(name)
	if err != nil {
		return "", err
	}
	if err := b.publish(name, next); err != nil {
		return next, err
	}
	return next, nil
}

// ToggleLocal flips name without commanding hardware. Actuators whose
// firmware polls state instead of listening on the control topic use
// this path.
func (b *Bridge) ToggleLocal(name string) (string, error) {
	return b.store.Toggle(name)
}

// Set stores an explicit state without publishing.
func (b *Bridge) Set(name, state string) error {
	return b.store.Set(name, state)
}

func (b *Bridge) publish(name, state string) error {
	if err := b.publisher.Publish(b.topic, b.qos, false, []byte(state)); err != nil {
		logger.Error("failed to publish control command",
			zap.String("actuator", name),
			zap.String("state", state),
			zap.String("topic", b.topic),
			zap.Error(err))
		return fmt.Errorf("failed to publish control command: %w", err)
	}

	logger.Info("published control command",
		zap.String("actuator", name),
		zap.String("state", state),
		zap.String("topic", b.topic))
	return nil
}
