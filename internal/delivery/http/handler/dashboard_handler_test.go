package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// seedSensorWithLogs wires farm -> esp -> sensor and writes readings.
func (e *testEnv) seedSensorWithLogs(t *testing.T, farmID uint, sensorType string, values []float64) uint {
	t.Helper()

	esp := models.ESPModel{FarmID: farmID, ESPName: "esp-1", IPAddress: "10.0.0.12", CreatedAt: time.Now()}
	require.NoError(t, e.db.Create(&esp).Error)

	sensor := models.SensorModel{ESPID: esp.ID, SensorType: sensorType, SensorName: "probe", GPIOPin: 4}
	require.NoError(t, e.db.Create(&sensor).Error)

	now := time.Now()
	for i, v := range values {
		log := models.SensorLogModel{
			SensorID:    sensor.ID,
			SensorType:  sensorType,
			SensorValue: v,
			Time:        now.Add(time.Duration(i-len(values)) * time.Minute),
		}
		require.NoError(t, e.db.Create(&log).Error)
	}
	return sensor.ID
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")
	env.seedSensorWithLogs(t, farmID, "temperature", []float64{21.5, 22.0, 22.5})

	w := env.request(t, http.MethodGet, fmt.Sprintf("/user/dashboard/%d", farmID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "tomato", body["crop"])
	assert.Contains(t, body, "plantedAt")

	sensors, ok := body["sensors"].([]interface{})
	require.True(t, ok)
	require.Len(t, sensors, 1)

	// Latest readings pivot by sensor type with a shared time key.
	logs, ok := body["sensorLogs"].([]interface{})
	require.True(t, ok)
	require.Len(t, logs, 1)
	reading, ok := logs[0].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, reading, "temperature")
	assert.Contains(t, reading, "time")
}

func TestDashboardEmptyFarm(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "Bare Field", "basil")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/user/dashboard/%d", farmID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "basil", body["crop"])
	assert.NotContains(t, body, "sensors")
	assert.NotContains(t, body, "sensorLogs")
}

func TestDashboardNotOwner(t *testing.T) {
	env := newTestEnv(t)
	ownerID, _ := env.createUser(t, "owner@farm.io", "owner")
	_, intruderToken := env.createUser(t, "intruder@farm.io", "intruder")
	farmID := env.createFarm(t, ownerID, "North Field", "tomato")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/user/dashboard/%d", farmID), intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardUnknownFarm(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	w := env.request(t, http.MethodGet, "/user/dashboard/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSensorDataRequiresFarmID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	w := env.request(t, http.MethodGet, "/user/sensor-data?timeFrame=7days", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSensorDataInvalidTimeFrame(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")

	w := env.request(t, http.MethodGet,
		fmt.Sprintf("/user/sensor-data?farmId=%d&timeFrame=90days", farmID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSensorDataHistory(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")
	env.seedSensorWithLogs(t, farmID, "humidity", []float64{60, 62, 64})

	w := env.request(t, http.MethodGet,
		fmt.Sprintf("/user/sensor-data?farmId=%d&timeFrame=7days", farmID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var points []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	require.NotEmpty(t, points)
	assert.Contains(t, points[0], "date")
	assert.Contains(t, points[0], "humidity")
}

func TestSensorDataNoSensors(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "Bare Field", "basil")

	w := env.request(t, http.MethodGet,
		fmt.Sprintf("/user/sensor-data?farmId=%d&timeFrame=7days", farmID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
