package ingestion

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"smart-farm-monitor/internal/domain/telemetry"
	"smart-farm-monitor/internal/logger"
)

// Processor buffers incoming telemetry and writes it to the database in
// batches. Messages flow in through Enqueue, validated by a worker pool,
// and accumulate in a buffer flushed on size or on a timer.
type Processor struct {
	repo telemetry.Repository

	buffer []telemetry.SensorLog

	batchSize    int
	batchTimeout time.Duration
	workerCount  int

	messages chan *TelemetryMessage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	// stopMu fences Enqueue against the channel close in Stop; a paho
	// callback may still be running after Unsubscribe returns.
	stopMu  sync.RWMutex
	stopped bool

	metrics *MetricsTracker
}

func NewProcessor(repo telemetry.Repository, batchSize, workerCount, bufferSize int, batchTimeout time.Duration) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		repo:         repo,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		workerCount:  workerCount,
		buffer:       make([]telemetry.SensorLog, 0, batchSize),
		messages:     make(chan *TelemetryMessage, bufferSize),
		ctx:          ctx,
		cancel:       cancel,
		metrics:      NewMetricsTracker(),
	}
}

// Start launches the worker pool and the batch flusher.
func (p *Processor) Start() {
	logger.Info("starting telemetry processor",
		zap.Int("workers", p.workerCount),
		zap.Int("batch_size", p.batchSize),
		zap.Duration("batch_timeout", p.batchTimeout))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.wg.Add(1)
	go p.batchFlusher()
}

// Stop drains the workers and flushes whatever remains in the buffer.
func (p *Processor) Stop() {
	logger.Info("stopping telemetry processor")

	p.cancel()

	p.stopMu.Lock()
	p.stopped = true
	p.stopMu.Unlock()

	close(p.messages)
	p.wg.Wait()
	p.flushBatch()

	logger.Info("telemetry processor stopped")
}

// Enqueue queues a decoded message for processing. When the channel is
// full the message is dropped rather than blocking the MQTT callback.
func (p *Processor) Enqueue(msg *TelemetryMessage) {
	p.stopMu.RLock()
	defer p.stopMu.RUnlock()
	if p.stopped {
		return
	}

	select {
	case p.messages <- msg:
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesReceived++
			m.BufferSize = len(p.messages)
		})
	case <-p.ctx.Done():
		return
	default:
		logger.Warn("telemetry buffer full, dropping message",
			zap.Uint("sensor_id", msg.SensorID),
			zap.String("type", msg.Type))
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesFailed++
		})
	}
}

func (p *Processor) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case msg, ok := <-p.messages:
			if !ok {
				return
			}

			if err := p.processMessage(msg); err != nil {
				logger.Warn("failed to process telemetry message",
					zap.Int("worker", id),
					zap.Error(err))
				p.metrics.Update(func(m *IngestMetrics) {
					m.MessagesFailed++
				})
			} else {
				p.metrics.Update(func(m *IngestMetrics) {
					m.MessagesProcessed++
					m.LastProcessedAt = time.Now()
				})
			}

		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Processor) processMessage(msg *TelemetryMessage) error {
	if err := ValidateTelemetry(msg); err != nil {
		return err
	}

	ts := time.Now()
	if msg.Timestamp != nil {
		ts = *msg.Timestamp
	}

	record := telemetry.SensorLog{
		SensorID: msg.SensorID,
		Type:     msg.Type,
		Value:    msg.Value,
		Time:     ts,
	}

	p.mu.Lock()
	p.buffer = append(p.buffer, record)
	shouldFlush := len(p.buffer) >= p.batchSize
	p.mu.Unlock()

	if shouldFlush {
		p.flushBatch()
	}
	return nil
}

func (p *Processor) batchFlusher() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.flushBatch()
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Processor) flushBatch() {
	p.mu.Lock()
	if len(p.buffer) == 0 {
		p.mu.Unlock()
		return
	}
	batch := make([]telemetry.SensorLog, len(p.buffer))
	copy(batch, p.buffer)
	p.buffer = p.buffer[:0]
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.repo.BatchInsert(ctx, batch); err != nil {
		logger.Error("failed to insert telemetry batch",
			zap.Int("size", len(batch)),
			zap.Error(err))
		p.metrics.Update(func(m *IngestMetrics) {
			m.MessagesFailed += int64(len(batch))
		})
		return
	}

	p.metrics.Update(func(m *IngestMetrics) {
		m.RecordsInserted += int64(len(batch))
	})
}

// GetMetrics returns a snapshot of ingestion counters.
func (p *Processor) GetMetrics() IngestMetrics {
	return p.metrics.Snapshot()
}
