package ingestion

import (
	"fmt"
	"math"
)

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ValidateTelemetry checks a decoded telemetry message before it is
// buffered. Unknown sensor types pass with only the NaN/Inf check so new
// firmware can ship sensors before the backend learns their bounds.
func ValidateTelemetry(msg *TelemetryMessage) error {
	if msg.SensorID == 0 {
		return &ValidationError{Field: "sensor_id", Message: "sensor_id is required"}
	}
	if msg.Type == "" {
		return &ValidationError{Field: "type", Message: "type is required"}
	}
	if math.IsNaN(msg.Value) || math.IsInf(msg.Value, 0) {
		return &ValidationError{Field: "value", Message: "value must be finite"}
	}

	if bounds, ok := sensorBounds[msg.Type]; ok {
		if msg.Value < bounds[0] || msg.Value > bounds[1] {
			return &ValidationError{
				Field:   "value",
				Message: fmt.Sprintf("%s must be between %g and %g", msg.Type, bounds[0], bounds[1]),
			}
		}
	}

	return nil
}
