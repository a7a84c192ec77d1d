package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/internal/usecase/dashboard"
	"smart-farm-monitor/pkg/utils"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/user/dashboard/:farm_id", h.Dashboard)
	router.GET("/user/sensor-data", h.SensorData)
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	farmID, ok := paramUint(c, "farm_id")
	if !ok {
		return
	}

	resp, err := h.service.Dashboard(c.Request.Context(), userID, farmID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) SensorData(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	timeFrame := c.Query("timeFrame")
	farmIDParam := c.Query("farmId")
	if farmIDParam == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Farm ID is required")
		return
	}
	farmID, err := strconv.ParseUint(farmIDParam, 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid farmId")
		return
	}

	points, err := h.service.History(c.Request.Context(), userID, uint(farmID), timeFrame)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}
