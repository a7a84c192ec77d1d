package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainStore "smart-farm-monitor/internal/domain/store"
	"smart-farm-monitor/internal/usecase/store"
	"smart-farm-monitor/pkg/utils"
)

type StoreHandler struct {
	service *store.Service
}

func NewStoreHandler(service *store.Service) *StoreHandler {
	return &StoreHandler{service: service}
}

// RegisterPublicRoutes mounts the browsable catalog.
func (h *StoreHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/store", h.ListItems)
	router.GET("/store/:id", h.GetItem)
}

// RegisterAdminRoutes mounts catalog management; callers must already be
// behind the admin role check.
func (h *StoreHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/store", h.CreateItem)
	router.PUT("/store/:id", h.UpdateItem)
}

func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/user/devices/purchase", h.Purchase)
	router.GET("/user/device-inventory", h.Inventory)
	router.GET("/user/devices/unassigned", h.UnassignedDevices)
	router.GET("/user/devices/all", h.AllDevices)
	router.POST("/user/devices/:device_id/assign", h.AssignDevice)
	router.DELETE("/user/devices/:device_id", h.DeleteDevice)
}

func (h *StoreHandler) ListItems(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *StoreHandler) GetItem(c *gin.Context) {
	itemID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *StoreHandler) CreateItem(c *gin.Context) {
	var req store.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *StoreHandler) UpdateItem(c *gin.Context) {
	itemID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req store.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), itemID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *StoreHandler) Purchase(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req store.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Purchase(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Purchase complete", gin.H{"devices_created": created})
}

func (h *StoreHandler) Inventory(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	counts, err := h.service.Inventory(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *StoreHandler) UnassignedDevices(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	devices, err := h.service.ListDevices(c.Request.Context(), userID, domainStore.StatusUnassigned)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (h *StoreHandler) AllDevices(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	devices, err := h.service.ListDevices(c.Request.Context(), userID, "")
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (h *StoreHandler) AssignDevice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	deviceID, ok := paramUint(c, "device_id")
	if !ok {
		return
	}

	var req store.AssignDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	espID, err := h.service.Assign(c.Request.Context(), userID, deviceID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "esp_id": espID})
}

func (h *StoreHandler) DeleteDevice(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	deviceID, ok := paramUint(c, "device_id")
	if !ok {
		return
	}

	if err := h.service.DeleteDevice(c.Request.Context(), userID, deviceID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device deleted", nil)
}
