package store

import (
	"time"

	domainStore "smart-farm-monitor/internal/domain/store"
)

type PurchaseLine struct {
	StoreID  uint `json:"store_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

type PurchaseRequest struct {
	Items []PurchaseLine `json:"items" validate:"required,min=1,dive"`
}

type AssignDeviceRequest struct {
	FarmID     uint   `json:"farm_id" validate:"required"`
	ESPIP      string `json:"esp_ip" validate:"required,max=64"`
	CustomName string `json:"custom_name" validate:"omitempty,max=255"`
}

// SaveItemRequest creates or replaces one catalog row. Catalog editing
// is an admin-only surface.
type SaveItemRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	Type          string  `json:"type" validate:"required,oneof=sensor actuator"`
	Subtype       string  `json:"subtype" validate:"required,min=1,max=100"`
	Price         float64 `json:"price" validate:"gte=0"`
	ImageURL      *string `json:"image_url" validate:"omitempty,max=512"`
	Description   *string `json:"description"`
	Details       *string `json:"details"`
	Communication *string `json:"communication" validate:"omitempty,max=100"`
	Stock         int     `json:"stock" validate:"gte=0"`
	IsActive      *bool   `json:"is_active"`
}

type ItemResponse struct {
	StoreID       uint      `json:"store_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Subtype       string    `json:"subtype"`
	Price         float64   `json:"price"`
	ImageURL      *string   `json:"image_url"`
	Description   *string   `json:"description"`
	Details       *string   `json:"details"`
	Communication *string   `json:"communication"`
	Stock         int       `json:"stock"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DeviceResponse struct {
	DeviceID       uint   `json:"device_id"`
	Name           string `json:"name"`
	DeviceType     string `json:"device_type"`
	DeviceSubtype  string `json:"device_subtype"`
	GPIOPin        int    `json:"gpio_pin"`
	Status         string `json:"status"`
	AssignedFarmID *uint  `json:"assigned_farm_id,omitempty"`
	AssignedESPID  *uint  `json:"assigned_esp_id,omitempty"`
}

type InventoryResponse struct {
	Type   string `json:"type"`
	Total  int    `json:"total"`
	Used   int    `json:"used"`
	Remain int    `json:"remain"`
}

func toItemResponse(i *domainStore.Item) *ItemResponse {
	return &ItemResponse{
		StoreID:       i.ID,
		Name:          i.Name,
		Type:          i.Type,
		Subtype:       i.Subtype,
		Price:         i.Price,
		ImageURL:      i.ImageURL,
		Description:   i.Description,
		Details:       i.Details,
		Communication: i.Communication,
		Stock:         i.Stock,
		IsActive:      i.IsActive,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func toDeviceResponse(d *domainStore.UserDevice) *DeviceResponse {
	return &DeviceResponse{
		DeviceID:       d.ID,
		Name:           d.Name,
		DeviceType:     d.DeviceType,
		DeviceSubtype:  d.DeviceSubtype,
		GPIOPin:        d.GPIOPin,
		Status:         d.Status,
		AssignedFarmID: d.AssignedFarmID,
		AssignedESPID:  d.AssignedESPID,
	}
}
