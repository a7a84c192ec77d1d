package models

import "time"

// FarmModel represents the database model for Farm. No cascade is declared
// from farms to esps; deleting a farm leaves its ESP rows in place.
type FarmModel struct {
	ID                  uint      `gorm:"column:farm_id;primaryKey;autoIncrement"`
	UserID              uint      `gorm:"not null;index"`
	FarmName            string    `gorm:"type:varchar(255);not null"`
	Location            *string   `gorm:"type:varchar(255)"`
	FarmSize            *float64  `gorm:"type:numeric"`
	PlantName           string    `gorm:"type:varchar(255);not null"`
	TemperatureOptimal  *float64  `gorm:"type:numeric"`
	HumidityOptimal     *float64  `gorm:"type:numeric"`
	SoilMoistureOptimal *float64  `gorm:"type:numeric"`
	CreatedAt           time.Time `gorm:"not null"`
}

func (FarmModel) TableName() string {
	return "farms"
}

// ESPModel represents one controller board belonging to a farm.
type ESPModel struct {
	ID          uint      `gorm:"column:esp_id;primaryKey;autoIncrement"`
	FarmID      uint      `gorm:"not null;index"`
	ESPName     string    `gorm:"type:varchar(255)"`
	IPAddress   string    `gorm:"type:varchar(64)"`
	SerialNo    string    `gorm:"type:varchar(128)"`
	IsConnected bool      `gorm:"default:false;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (ESPModel) TableName() string {
	return "esps"
}

// SensorModel represents a sensor attached to an ESP. GPIO pin uniqueness
// per ESP is intentionally not constrained.
type SensorModel struct {
	ID          uint      `gorm:"column:sensor_id;primaryKey;autoIncrement"`
	ESPID       uint      `gorm:"column:esp_id;not null;index"`
	SensorType  string    `gorm:"type:varchar(100);not null"`
	SensorName  string    `gorm:"type:varchar(255);not null"`
	DeviceName  *string   `gorm:"type:varchar(255)"`
	GPIOPin     int       `gorm:"column:gpio_pin;not null"`
	Unit        *string   `gorm:"type:varchar(32)"`
	IsActive    bool      `gorm:"default:true;not null"`
	InstalledAt time.Time `gorm:"autoCreateTime"`
}

func (SensorModel) TableName() string {
	return "sensors"
}

// ActuatorModel represents a controllable output attached to an ESP.
type ActuatorModel struct {
	ID           uint      `gorm:"column:actuator_id;primaryKey;autoIncrement"`
	ESPID        uint      `gorm:"column:esp_id;not null;index"`
	ActuatorType string    `gorm:"type:varchar(100);not null"`
	ActuatorName string    `gorm:"type:varchar(255);not null"`
	DeviceName   *string   `gorm:"type:varchar(255)"`
	GPIOPin      int       `gorm:"column:gpio_pin;not null"`
	IsActive     bool      `gorm:"default:true;not null"`
	InstalledAt  time.Time `gorm:"autoCreateTime"`
}

func (ActuatorModel) TableName() string {
	return "actuators"
}

// AutomationConditionModel stores trigger/threshold rules. No engine in
// this repository evaluates them.
type AutomationConditionModel struct {
	ID         uint    `gorm:"column:condition_id;primaryKey;autoIncrement"`
	UserID     uint    `gorm:"not null;index"`
	FarmID     uint    `gorm:"not null;index"`
	SensorID   uint    `gorm:"not null"`
	ActuatorID uint    `gorm:"not null"`
	Trigger    string  `gorm:"column:trigger_rule;type:varchar(50);not null"`
	Threshold  float64 `gorm:"not null"`
}

func (AutomationConditionModel) TableName() string {
	return "automation_conditions"
}
