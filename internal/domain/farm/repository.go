package farm

import "context"

// NewDevice describes the sensor or actuator created together with an ESP
// or attached to an existing one.
type NewDevice struct {
	Kind    string
	Type    string
	Name    string
	GPIOPin int
	Unit    *string
}

// Repository defines farm, ESP and device persistence.
type Repository interface {
	CreateFarm(ctx context.Context, f *Farm) error
	GetFarm(ctx context.Context, farmID uint) (*Farm, error)
	ListFarms(ctx context.Context, userID uint) ([]*Farm, error)
	DeleteFarm(ctx context.Context, farmID uint) error
	UpdateFarmSettings(ctx context.Context, userID uint, farmName string, temperature, humidity, soilMoisture *float64) (bool, error)

	// CreateESPWithDevice creates the ESP and its single device in one
	// transaction, after checking the owner's remaining inventory for the
	// device type.
	CreateESPWithDevice(ctx context.Context, esp *ESP, device *NewDevice) error
	GetESP(ctx context.Context, farmID, espID uint) (*ESP, error)
	ListESPs(ctx context.Context, farmID uint) ([]*ESP, error)
	// DeleteESP unassigns purchased devices pointing at the ESP, then
	// deletes the ESP, in one transaction.
	DeleteESP(ctx context.Context, farmID, espID uint) error

	ESPBelongsToFarm(ctx context.Context, espID, farmID uint) (bool, error)
	CreateSensor(ctx context.Context, s *Sensor) error
	CreateActuator(ctx context.Context, a *Actuator) error
	ListSensors(ctx context.Context, espIDs []uint) ([]*Sensor, error)
	ListActuators(ctx context.Context, espIDs []uint) ([]*Actuator, error)

	CountOwnedDevices(ctx context.Context, userID uint, kind, deviceType string) (int, error)

	ListConditions(ctx context.Context, userID uint) ([]*AutomationCondition, error)
	CreateCondition(ctx context.Context, c *AutomationCondition) error
	DeleteCondition(ctx context.Context, userID, conditionID uint) error
}
