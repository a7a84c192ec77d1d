package ingestion

import "time"

// TelemetryMessage is the JSON payload ESP32 boards publish on the
// sensor topic.
//
//	{"sensor_id": 3, "type": "temperature", "value": 24.5, "ts": "2026-08-30T12:00:00Z"}
//
// ts is optional; missing timestamps are stamped at receive time.
type TelemetryMessage struct {
	SensorID  uint       `json:"sensor_id"`
	Type      string     `json:"type"`
	Value     float64    `json:"value"`
	Timestamp *time.Time `json:"ts,omitempty"`
}

// Known sensor types and their plausibility bounds. Boards in the field
// occasionally emit garbage after brownouts; readings outside these
// ranges are rejected before they reach the database.
var sensorBounds = map[string][2]float64{
	"temperature":   {-50, 100},
	"humidity":      {0, 100},
	"soil_moisture": {0, 100},
	"light":         {0, 200000},
	"co2":           {0, 10000},
	"ph":            {0, 14},
}
