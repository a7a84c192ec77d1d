package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"smart-farm-monitor/internal/logger"
	pkgmqtt "smart-farm-monitor/pkg/mqtt"
)

// Subscriber wires MQTT telemetry messages into the processor. ESP32
// boards publish readings on a single shared sensor topic.
type Subscriber struct {
	client    *pkgmqtt.Client
	processor *Processor
	topic     string
	qos       byte

	mu      sync.Mutex
	started bool
}

func NewSubscriber(client *pkgmqtt.Client, processor *Processor, topic string, qos byte) (*Subscriber, error) {
	if client == nil {
		return nil, errors.New("mqtt client is required")
	}
	if processor == nil {
		return nil, errors.New("processor is required")
	}
	if topic == "" {
		return nil, errors.New("sensor topic is required")
	}

	return &Subscriber{
		client:    client,
		processor: processor,
		topic:     topic,
		qos:       qos,
	}, nil
}

// Start subscribes to the sensor topic. The client must already be
// connected.
func (s *Subscriber) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if err := s.client.Subscribe(s.topic, s.qos, s.handleMessage); err != nil {
		return fmt.Errorf("subscribe failed for topic %s: %w", s.topic, err)
	}

	logger.Info("listening for telemetry", zap.String("topic", s.topic))
	s.started = true
	return nil
}

// Stop unsubscribes from the sensor topic.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.client.Unsubscribe(s.topic); err != nil {
		logger.Warn("failed to unsubscribe from sensor topic", zap.Error(err))
	}
	s.started = false
}

func (s *Subscriber) handleMessage(_ string, payload []byte) {
	var msg TelemetryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn("invalid telemetry payload", zap.Error(err))
		return
	}

	s.processor.Enqueue(&msg)
}
