package telemetry

import "time"

// SensorLog is one append-only time-series row.
type SensorLog struct {
	ID       uint
	SensorID uint
	Type     string
	Value    float64
	Time     time.Time
}

// DeviceStatus is the latest on/off state recorded for a purchased device.
type DeviceStatus struct {
	DeviceID  uint
	Status    string
	UpdatedAt time.Time
}

// TypedAverage is one (bucket, sensor type, average) aggregation row.
// Buckets are hours for the dashboard view and days for the graph view.
type TypedAverage struct {
	Bucket time.Time
	Type   string
	Value  float64
}

// TypedReading is one sensor value at a point in time, used for the
// latest-reading pivot on the dashboard.
type TypedReading struct {
	Time  time.Time
	Type  string
	Value float64
}
