package store

import "time"

// Item is one catalog row purchasable from the in-app store.
type Item struct {
	ID            uint
	Name          string
	Type          string
	Subtype       string
	Price         float64
	ImageURL      *string
	Description   *string
	Details       *string
	Communication *string
	Stock         int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserDevice is a purchase-created device instance awaiting physical
// registration on a farm.
type UserDevice struct {
	ID             uint
	UserID         uint
	StoreID        uint
	Name           string
	DeviceType     string
	DeviceSubtype  string
	GPIOPin        int
	Unit           *string
	Status         string
	AssignedFarmID *uint
	AssignedESPID  *uint
	CreatedAt      time.Time
}

const (
	StatusUnassigned = "unassigned"
	StatusAssigned   = "assigned"
)

// PurchaseItem is one line of a checkout request.
type PurchaseItem struct {
	StoreID  uint
	Quantity int
}

// InventoryCount aggregates owned vs installed devices per type.
type InventoryCount struct {
	Type   string
	Total  int
	Used   int
	Remain int
}
