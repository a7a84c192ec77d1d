package telemetry

import (
	"context"
	"time"
)

// Repository defines sensor-log persistence and the dashboard aggregations.
type Repository interface {
	// BatchInsert appends a batch of logs in one statement. Used by the
	// MQTT ingestion pipeline.
	BatchInsert(ctx context.Context, logs []SensorLog) error

	// SensorTypes returns the distinct sensor types registered on a farm.
	SensorTypes(ctx context.Context, farmID uint) ([]string, error)

	// LatestReadings returns the readings recorded at the most recent
	// log timestamp for the farm, one row per sensor type.
	LatestReadings(ctx context.Context, farmID uint) ([]TypedReading, error)

	// HourlyAverages buckets the last 24 hours by hour per sensor type.
	HourlyAverages(ctx context.Context, farmID uint) ([]TypedAverage, error)

	// DailyAverages buckets [start, end] by day per sensor type.
	DailyAverages(ctx context.Context, farmID uint, start, end time.Time) ([]TypedAverage, error)

	// DeviceStatuses joins purchased devices with their latest status.
	DeviceStatuses(ctx context.Context, userID uint) ([]DeviceStatus, error)
}
