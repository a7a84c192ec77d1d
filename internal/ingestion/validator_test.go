package ingestion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTelemetry(t *testing.T) {
	tests := []struct {
		name    string
		msg     TelemetryMessage
		wantErr bool
	}{
		{"valid temperature", TelemetryMessage{SensorID: 1, Type: "temperature", Value: 24.5}, false},
		{"missing sensor id", TelemetryMessage{Type: "temperature", Value: 24.5}, true},
		{"missing type", TelemetryMessage{SensorID: 1, Value: 24.5}, true},
		{"NaN value", TelemetryMessage{SensorID: 1, Type: "temperature", Value: math.NaN()}, true},
		{"Inf on known type", TelemetryMessage{SensorID: 1, Type: "temperature", Value: math.Inf(1)}, true},
		{"Inf on unknown type", TelemetryMessage{SensorID: 1, Type: "wind_speed", Value: math.Inf(1)}, true},
		{"negative Inf on unknown type", TelemetryMessage{SensorID: 1, Type: "wind_speed", Value: math.Inf(-1)}, true},
		{"temperature too low", TelemetryMessage{SensorID: 1, Type: "temperature", Value: -80}, true},
		{"temperature too high", TelemetryMessage{SensorID: 1, Type: "temperature", Value: 150}, true},
		{"humidity in range", TelemetryMessage{SensorID: 1, Type: "humidity", Value: 55}, false},
		{"humidity over 100", TelemetryMessage{SensorID: 1, Type: "humidity", Value: 101}, true},
		{"soil moisture negative", TelemetryMessage{SensorID: 1, Type: "soil_moisture", Value: -1}, true},
		{"ph boundary", TelemetryMessage{SensorID: 1, Type: "ph", Value: 14}, false},
		{"unknown type passes", TelemetryMessage{SensorID: 1, Type: "wind_speed", Value: 9999}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTelemetry(&tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	err := ValidateTelemetry(&TelemetryMessage{Type: "temperature", Value: 20})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "sensor_id", verr.Field)
}
