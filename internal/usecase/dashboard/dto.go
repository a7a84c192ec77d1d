package dashboard

import "time"

type SensorInfo struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Pin         int       `json:"pin"`
	Unit        *string   `json:"unit"`
	Active      bool      `json:"active"`
	InstalledAt time.Time `json:"installedAt"`
}

type ActuatorInfo struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Pin         int       `json:"pin"`
	Active      bool      `json:"active"`
	InstalledAt time.Time `json:"installedAt"`
}

// PivotedReading maps sensor type to value at one instant; the "time"
// key carries the instant itself.
type PivotedReading map[string]interface{}

// DashboardResponse mirrors the farm dashboard payload: crop record,
// device lists and sensor readings pivoted by type. Optional sections
// are omitted when empty.
type DashboardResponse struct {
	Crop           string           `json:"crop"`
	PlantedAt      *time.Time       `json:"plantedAt"`
	Sensors        []*SensorInfo    `json:"sensors,omitempty"`
	Actuators      []*ActuatorInfo  `json:"actuators,omitempty"`
	SensorLogs     []PivotedReading `json:"sensorLogs,omitempty"`
	HourlyAverages []PivotedReading `json:"dailySensorLogs,omitempty"`
}

// GraphPoint is one day in the history graph: date plus one key per
// sensor type, null where the type has no samples that day.
type GraphPoint map[string]interface{}
