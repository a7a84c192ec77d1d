package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/internal/control"
	"smart-farm-monitor/pkg/utils"
)

// statusKeys maps each actuator to the JSON key its clients expect.
var statusKeys = map[string]string{
	control.ActuatorLight:    "lightStatus",
	control.ActuatorFan:      "fanStatus",
	control.ActuatorWatering: "wateringStatus",
}

type ControlHandler struct {
	bridge *control.Bridge
}

func NewControlHandler(bridge *control.Bridge) *ControlHandler {
	return &ControlHandler{bridge: bridge}
}

func (h *ControlHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/light/status", h.Status(control.ActuatorLight))
	router.GET("/fan/status", h.Status(control.ActuatorFan))
	router.GET("/watering/status", h.Status(control.ActuatorWatering))

	// Only the light is wired to the control topic; fan and watering
	// firmware polls the stored state.
	router.POST("/light/toggle", h.ToggleLight)
	router.POST("/fan/toggle", h.ToggleLocal(control.ActuatorFan))
	router.POST("/watering/toggle", h.ToggleLocal(control.ActuatorWatering))

	router.POST("/actuator/:name/control", h.SetState)
}

func (h *ControlHandler) Status(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := h.bridge.Status(name)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{statusKeys[name]: state})
	}
}

func (h *ControlHandler) ToggleLight(c *gin.Context) {
	state, err := h.bridge.Toggle(control.ActuatorLight)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{statusKeys[control.ActuatorLight]: state})
}

func (h *ControlHandler) ToggleLocal(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := h.bridge.ToggleLocal(name)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{statusKeys[name]: state})
	}
}

// SetState accepts {"lightStatus":"ON"} style bodies keyed per actuator.
func (h *ControlHandler) SetState(c *gin.Context) {
	name := c.Param("name")
	key, ok := statusKeys[name]
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "unknown actuator")
		return
	}

	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	state := body[key]
	if state != control.StateOn && state != control.StateOff {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+key)
		return
	}

	if err := h.bridge.Set(name, state); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{key: state})
}
