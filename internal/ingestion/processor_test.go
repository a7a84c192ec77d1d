package ingestion

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-farm-monitor/internal/domain/telemetry"
	"smart-farm-monitor/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fakeTelemetryRepo records batches handed to BatchInsert. Only the
// ingestion-facing method does anything.
type fakeTelemetryRepo struct {
	mu      sync.Mutex
	batches [][]telemetry.SensorLog
}

func (f *fakeTelemetryRepo) BatchInsert(_ context.Context, logs []telemetry.SensorLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]telemetry.SensorLog, len(logs))
	copy(batch, logs)
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeTelemetryRepo) SensorTypes(context.Context, uint) ([]string, error) {
	return nil, nil
}

func (f *fakeTelemetryRepo) LatestReadings(context.Context, uint) ([]telemetry.TypedReading, error) {
	return nil, nil
}

func (f *fakeTelemetryRepo) HourlyAverages(context.Context, uint) ([]telemetry.TypedAverage, error) {
	return nil, nil
}

func (f *fakeTelemetryRepo) DailyAverages(context.Context, uint, time.Time, time.Time) ([]telemetry.TypedAverage, error) {
	return nil, nil
}

func (f *fakeTelemetryRepo) DeviceStatuses(context.Context, uint) ([]telemetry.DeviceStatus, error) {
	return nil, nil
}

func (f *fakeTelemetryRepo) inserted() []telemetry.SensorLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []telemetry.SensorLog
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

func TestProcessorFlushesOnStop(t *testing.T) {
	repo := &fakeTelemetryRepo{}
	p := NewProcessor(repo, 100, 2, 10, time.Hour)
	p.Start()

	for i := 1; i <= 5; i++ {
		p.Enqueue(&TelemetryMessage{SensorID: uint(i), Type: "temperature", Value: 20})
	}

	// Give the workers a moment to drain the channel, then stop.
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	assert.Len(t, repo.inserted(), 5)
}

func TestProcessorFlushesOnBatchSize(t *testing.T) {
	repo := &fakeTelemetryRepo{}
	p := NewProcessor(repo, 3, 1, 10, time.Hour)
	p.Start()
	defer p.Stop()

	for i := 1; i <= 3; i++ {
		p.Enqueue(&TelemetryMessage{SensorID: uint(i), Type: "humidity", Value: 50})
	}

	require.Eventually(t, func() bool {
		return len(repo.inserted()) == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcessorRejectsInvalidMessages(t *testing.T) {
	repo := &fakeTelemetryRepo{}
	p := NewProcessor(repo, 100, 1, 10, time.Hour)
	p.Start()

	p.Enqueue(&TelemetryMessage{SensorID: 1, Type: "temperature", Value: 500})
	p.Enqueue(&TelemetryMessage{SensorID: 2, Type: "temperature", Value: 21})

	time.Sleep(100 * time.Millisecond)
	p.Stop()

	inserted := repo.inserted()
	require.Len(t, inserted, 1)
	assert.Equal(t, uint(2), inserted[0].SensorID)

	metrics := p.GetMetrics()
	assert.Equal(t, int64(1), metrics.MessagesFailed)
	assert.Equal(t, int64(1), metrics.MessagesProcessed)
}

func TestProcessorEnqueueAfterStop(t *testing.T) {
	repo := &fakeTelemetryRepo{}
	p := NewProcessor(repo, 100, 1, 10, time.Hour)
	p.Start()
	p.Stop()

	// A subscriber callback may still fire after Stop; the message is
	// dropped instead of panicking on the closed channel.
	p.Enqueue(&TelemetryMessage{SensorID: 1, Type: "temperature", Value: 20})

	assert.Empty(t, repo.inserted())
	assert.Equal(t, int64(0), p.GetMetrics().MessagesReceived)
}

func TestProcessorStampsMissingTimestamp(t *testing.T) {
	repo := &fakeTelemetryRepo{}
	p := NewProcessor(repo, 100, 1, 10, time.Hour)
	p.Start()

	before := time.Now()
	p.Enqueue(&TelemetryMessage{SensorID: 1, Type: "light", Value: 800})
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	inserted := repo.inserted()
	require.Len(t, inserted, 1)
	assert.False(t, inserted[0].Time.Before(before))

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo2 := &fakeTelemetryRepo{}
	p2 := NewProcessor(repo2, 100, 1, 10, time.Hour)
	p2.Start()
	p2.Enqueue(&TelemetryMessage{SensorID: 1, Type: "light", Value: 800, Timestamp: &ts})
	time.Sleep(100 * time.Millisecond)
	p2.Stop()

	inserted = repo2.inserted()
	require.Len(t, inserted, 1)
	assert.True(t, ts.Equal(inserted[0].Time))
}
