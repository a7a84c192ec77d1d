package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/internal/usecase/farm"
	"smart-farm-monitor/pkg/utils"
)

type FarmHandler struct {
	service *farm.Service
}

func NewFarmHandler(service *farm.Service) *FarmHandler {
	return &FarmHandler{service: service}
}

func (h *FarmHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/user/createfarm", h.CreateFarm)
	router.GET("/user/farm-list", h.FarmList)
	router.GET("/user/farms", h.FarmTree)
	router.GET("/user/farm/:farm_id/esp/:esp_id", h.GetESP)
	router.POST("/user/farm/:farm_id/esp", h.CreateESP)
	router.POST("/user/farm/:farm_id/esp/:esp_id/device", h.AddDevice)
	router.DELETE("/user/farm/:farm_id", h.DeleteFarm)
	router.DELETE("/user/farm/:farm_id/esp/:esp_id", h.DeleteESP)

	router.GET("/user/farm-types", h.FarmTypes)
	router.POST("/user/farm-settings", h.SaveFarmSettings)

	router.GET("/user/automation-conditions", h.ListConditions)
	router.POST("/user/automation-conditions", h.CreateCondition)
	router.DELETE("/user/automation-conditions/:condition_id", h.DeleteCondition)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func (h *FarmHandler) CreateFarm(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req farm.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreateFarm(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Farm created", created)
}

func (h *FarmHandler) FarmList(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	farms, err := h.service.ListFarms(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if len(farms) == 0 {
		utils.ErrorResponse(c, http.StatusNotFound, "no farms registered")
		return
	}

	c.JSON(http.StatusOK, farms)
}

func (h *FarmHandler) FarmTree(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	tree, err := h.service.FarmTree(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *FarmHandler) GetESP(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	farmID, ok := paramUint(c, "farm_id")
	if !ok {
		return
	}
	espID, ok := paramUint(c, "esp_id")
	if !ok {
		return
	}

	esp, err := h.service.GetESP(c.Request.Context(), userID, farmID, espID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, esp)
}

func (h *FarmHandler) CreateESP(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	farmID, ok := paramUint(c, "farm_id")
	if !ok {
		return
	}

	var req farm.CreateESPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	espID, err := h.service.CreateESP(c.Request.Context(), userID, farmID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"esp_id": espID})
}

func (h *FarmHandler) AddDevice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	farmID, ok := paramUint(c, "farm_id")
	if !ok {
		return
	}
	espID, ok := paramUint(c, "esp_id")
	if !ok {
		return
	}

	var req farm.AddDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	deviceID, err := h.service.AddDevice(c.Request.Context(), userID, farmID, espID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Device added", gin.H{"device_id": deviceID})
}

func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	farmID, ok := paramUint(c, "farm_id")
	if !ok {
		return
	}

	if err := h.service.DeleteFarm(c.Request.Context(), userID, farmID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Farm deleted", nil)
}

func (h *FarmHandler) DeleteESP(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	farmID, ok := paramUint(c, "farm_id")
	if !ok {
		return
	}
	espID, ok := paramUint(c, "esp_id")
	if !ok {
		return
	}

	if err := h.service.DeleteESP(c.Request.Context(), userID, farmID, espID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ESP deleted", nil)
}

func (h *FarmHandler) FarmTypes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	types, err := h.service.ListFarmTypes(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if len(types) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no farms registered"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "farmNames": types})
}

func (h *FarmHandler) SaveFarmSettings(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req farm.FarmSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.SaveFarmSettings(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no matching farm to update"})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Farm settings saved", nil)
}

func (h *FarmHandler) ListConditions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	conditions, err := h.service.ListConditions(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "conditions": conditions})
}

func (h *FarmHandler) CreateCondition(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req farm.CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	condition, err := h.service.CreateCondition(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "condition": condition})
}

func (h *FarmHandler) DeleteCondition(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conditionID, ok := paramUint(c, "condition_id")
	if !ok {
		return
	}

	if err := h.service.DeleteCondition(c.Request.Context(), userID, conditionID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Condition deleted", nil)
}
