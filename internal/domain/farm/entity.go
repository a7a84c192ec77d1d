package farm

import "time"

// Farm is owned by exactly one user. Optimal* columns hold the per-farm
// environment targets edited on the settings page.
type Farm struct {
	ID                  uint
	UserID              uint
	Name                string
	Location            *string
	Size                *float64
	PlantName           string
	TemperatureOptimal  *float64
	HumidityOptimal     *float64
	SoilMoistureOptimal *float64
	CreatedAt           time.Time
}

// ESP is a controller board attached to a farm.
type ESP struct {
	ID          uint
	FarmID      uint
	Name        string
	IPAddress   string
	SerialNo    string
	IsConnected bool
	CreatedAt   time.Time
}

// Sensor reports a typed scalar reading through its ESP. Type is an open
// vocabulary (temperature, humidity, soil_moisture, ...). GPIO pin
// uniqueness per ESP is not enforced.
type Sensor struct {
	ID          uint
	ESPID       uint
	Type        string
	Name        string
	DeviceName  *string
	GPIOPin     int
	Unit        *string
	IsActive    bool
	InstalledAt time.Time
}

// Actuator is a controllable output attached to an ESP.
type Actuator struct {
	ID          uint
	ESPID       uint
	Type        string
	Name        string
	DeviceName  *string
	GPIOPin     int
	IsActive    bool
	InstalledAt time.Time
}

// AutomationCondition links a sensor reading to an actuator with a
// trigger/threshold rule. Stored only; no engine evaluates these.
type AutomationCondition struct {
	ID           uint
	UserID       uint
	FarmID       uint
	SensorID     uint
	ActuatorID   uint
	Trigger      string
	Threshold    float64
	SensorType   string
	ActuatorType string
	FarmName     string
}

// DeviceKind discriminates sensor vs actuator rows in mixed payloads.
const (
	DeviceKindSensor   = "sensor"
	DeviceKindActuator = "actuator"
)
