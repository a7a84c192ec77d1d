package farm

import (
	"time"

	domainFarm "smart-farm-monitor/internal/domain/farm"
)

type CreateFarmRequest struct {
	FarmName string   `json:"farmName" validate:"required,min=1,max=255"`
	Location *string  `json:"location" validate:"omitempty,max=255"`
	Crop     string   `json:"crop" validate:"required,min=1,max=255"`
	FarmSize *float64 `json:"farmSize" validate:"omitempty,gt=0"`
}

type FarmResponse struct {
	FarmID    uint      `json:"farm_id"`
	FarmName  string    `json:"farm_name"`
	Location  *string   `json:"location"`
	FarmSize  *float64  `json:"farm_size"`
	PlantName string    `json:"plant_name"`
	CreatedAt time.Time `json:"created_at"`
}

type FarmListItem struct {
	FarmID    uint      `json:"farmId"`
	FarmName  string    `json:"farmName"`
	Location  *string   `json:"location"`
	PlantedAt time.Time `json:"plantedAt"`
}

// DeviceResponse is the single sensor-or-actuator attached to an ESP in
// tree views.
type DeviceResponse struct {
	Kind       string  `json:"type"`
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	DeviceName *string `json:"device_name,omitempty"`
	DeviceType string  `json:"device_type"`
	GPIOPin    int     `json:"gpio_pin"`
}

type ESPResponse struct {
	ESPID       uint            `json:"esp_id"`
	FarmID      uint            `json:"farm_id,omitempty"`
	ESPName     string          `json:"esp_name"`
	IPAddress   string          `json:"ip_address"`
	IsConnected bool            `json:"is_connected"`
	Device      *DeviceResponse `json:"device"`
}

type FarmTreeResponse struct {
	FarmID    uint           `json:"farm_id"`
	FarmName  string         `json:"farm_name"`
	Location  *string        `json:"location"`
	FarmSize  *float64       `json:"farm_size"`
	PlantName string         `json:"plant_name"`
	ESPs      []*ESPResponse `json:"esps"`
}

type CreateESPRequest struct {
	ESPName       string  `json:"esp_name" validate:"required,min=1,max=255"`
	IPAddress     string  `json:"ip_address" validate:"required,max=64"`
	DeviceType    string  `json:"device_type" validate:"required"`
	DeviceName    string  `json:"device_name" validate:"required,min=1,max=255"`
	DeviceSubtype string  `json:"device_subtype" validate:"required,min=1,max=100"`
	GPIOPin       *int    `json:"gpio_pin" validate:"required"`
	Unit          *string `json:"unit" validate:"omitempty,max=32"`
}

type AddDeviceRequest struct {
	DeviceType   string  `json:"deviceType" validate:"required"`
	SensorType   *string `json:"sensor_type"`
	ActuatorType *string `json:"actuator_type"`
	DeviceName   string  `json:"device_name" validate:"required,min=1,max=255"`
	GPIOPin      *int    `json:"gpio_pin" validate:"required"`
}

type FarmTypeResponse struct {
	FarmName     string   `json:"farmName"`
	PlantName    string   `json:"plantName"`
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	SoilMoisture *float64 `json:"soilMoisture"`
}

type FarmSettingsRequest struct {
	FarmName     string   `json:"farmName" validate:"required"`
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	SoilMoisture *float64 `json:"soilMoisture"`
}

type ConditionResponse struct {
	ID           uint    `json:"id"`
	FarmName     string  `json:"farmName"`
	SensorType   string  `json:"sensorType"`
	ActuatorType string  `json:"actuatorType"`
	Trigger      string  `json:"trigger"`
	Threshold    float64 `json:"threshold"`
}

type CreateConditionRequest struct {
	FarmID     uint    `json:"farm_id" validate:"required"`
	SensorID   uint    `json:"sensor_id" validate:"required"`
	ActuatorID uint    `json:"actuator_id" validate:"required"`
	Trigger    string  `json:"trigger" validate:"required,oneof=above below"`
	Threshold  float64 `json:"threshold" validate:"required"`
}

func toFarmResponse(f *domainFarm.Farm) *FarmResponse {
	return &FarmResponse{
		FarmID:    f.ID,
		FarmName:  f.Name,
		Location:  f.Location,
		FarmSize:  f.Size,
		PlantName: f.PlantName,
		CreatedAt: f.CreatedAt,
	}
}

func toConditionResponse(c *domainFarm.AutomationCondition) *ConditionResponse {
	return &ConditionResponse{
		ID:           c.ID,
		FarmName:     c.FarmName,
		SensorType:   c.SensorType,
		ActuatorType: c.ActuatorType,
		Trigger:      c.Trigger,
		Threshold:    c.Threshold,
	}
}
