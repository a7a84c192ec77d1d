package farm

import "errors"

var (
	ErrFarmNotFound      = errors.New("farm not found")
	ErrESPNotFound       = errors.New("esp not found")
	ErrESPNotInFarm      = errors.New("esp does not belong to the given farm")
	ErrConditionNotFound = errors.New("automation condition not found")
	ErrInvalidDeviceKind = errors.New("device type must be 'sensor' or 'actuator'")
	ErrNoInventory       = errors.New("no remaining inventory for this device type")
)
