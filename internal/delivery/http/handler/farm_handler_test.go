package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

func TestCreateFarmAndList(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	w := env.request(t, http.MethodPost, "/user/createfarm", token, map[string]interface{}{
		"farmName": "North Field",
		"crop":     "tomato",
		"location": "behind the barn",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/user/farm-list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "North Field")
	assert.Contains(t, w.Body.String(), `"farmId"`)
}

func TestFarmListEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	w := env.request(t, http.MethodGet, "/user/farm-list", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateESPAndTree(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")

	gpio := 4
	w := env.request(t, http.MethodPost, fmt.Sprintf("/user/farm/%d/esp", farmID), token, map[string]interface{}{
		"esp_name":       "greenhouse-esp",
		"ip_address":     "10.0.0.12",
		"device_type":    "sensor",
		"device_name":    "DHT22",
		"device_subtype": "temperature",
		"gpio_pin":       gpio,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Contains(t, body, "esp_id")

	w = env.request(t, http.MethodGet, "/user/farms", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "greenhouse-esp")
	assert.Contains(t, w.Body.String(), "DHT22")
}

func TestCreateESPInvalidDeviceKind(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")

	w := env.request(t, http.MethodPost, fmt.Sprintf("/user/farm/%d/esp", farmID), token, map[string]interface{}{
		"esp_name":       "greenhouse-esp",
		"ip_address":     "10.0.0.12",
		"device_type":    "camera",
		"device_name":    "cam",
		"device_subtype": "rgb",
		"gpio_pin":       4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFarmOwnership(t *testing.T) {
	env := newTestEnv(t)
	ownerID, _ := env.createUser(t, "owner@farm.io", "owner")
	_, intruderToken := env.createUser(t, "intruder@farm.io", "intruder")
	farmID := env.createFarm(t, ownerID, "North Field", "tomato")

	w := env.request(t, http.MethodPost, fmt.Sprintf("/user/farm/%d/esp", farmID), intruderToken, map[string]interface{}{
		"esp_name":       "rogue-esp",
		"ip_address":     "10.0.0.66",
		"device_type":    "sensor",
		"device_name":    "DHT22",
		"device_subtype": "temperature",
		"gpio_pin":       4,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/user/farm/%d", farmID), intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteFarmKeepsESPs(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")

	esp := models.ESPModel{FarmID: farmID, ESPName: "survivor", IPAddress: "10.0.0.12", CreatedAt: time.Now()}
	require.NoError(t, env.db.Create(&esp).Error)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/user/farm/%d", farmID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var farmCount int64
	require.NoError(t, env.db.Model(&models.FarmModel{}).Where("farm_id = ?", farmID).Count(&farmCount).Error)
	assert.Zero(t, farmCount)

	// ESP rows deliberately outlive the farm.
	var espCount int64
	require.NoError(t, env.db.Model(&models.ESPModel{}).Where("farm_id = ?", farmID).Count(&espCount).Error)
	assert.EqualValues(t, 1, espCount)
}

func TestFarmTypes(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	env.createFarm(t, userID, "North Field", "tomato")

	w := env.request(t, http.MethodGet, "/user/farm-types", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, w.Body.String(), "North Field")
}

func TestAutomationConditions(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")
	farmID := env.createFarm(t, userID, "North Field", "tomato")

	esp := models.ESPModel{FarmID: farmID, ESPName: "esp-1", IPAddress: "10.0.0.12", CreatedAt: time.Now()}
	require.NoError(t, env.db.Create(&esp).Error)
	sensor := models.SensorModel{ESPID: esp.ID, SensorType: "temperature", SensorName: "DHT22", GPIOPin: 4}
	require.NoError(t, env.db.Create(&sensor).Error)
	actuator := models.ActuatorModel{ESPID: esp.ID, ActuatorType: "fan", ActuatorName: "vent-fan", GPIOPin: 5}
	require.NoError(t, env.db.Create(&actuator).Error)

	w := env.request(t, http.MethodPost, "/user/automation-conditions", token, map[string]interface{}{
		"farm_id":     farmID,
		"sensor_id":   sensor.ID,
		"actuator_id": actuator.ID,
		"trigger":     "above",
		"threshold":   30.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/user/automation-conditions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	conditions, ok := body["conditions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, conditions, 1)
}
