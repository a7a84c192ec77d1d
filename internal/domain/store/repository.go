package store

import "context"

// AssignRequest installs a purchased device onto a farm: a new ESP row is
// created for it and a sensor or actuator row is attached.
type AssignRequest struct {
	DeviceID   uint
	FarmID     uint
	ESPIP      string
	CustomName string
}

// Repository defines catalog and purchased-device persistence.
type Repository interface {
	ListItems(ctx context.Context) ([]*Item, error)
	GetItem(ctx context.Context, itemID uint) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error

	// Purchase inserts quantity individual user_devices rows per item in
	// a single transaction; any unknown store id rolls back the whole
	// batch. Stock is not decremented.
	Purchase(ctx context.Context, userID uint, items []PurchaseItem) (int, error)

	ListDevices(ctx context.Context, userID uint, status string) ([]*UserDevice, error)
	DeleteDevice(ctx context.Context, deviceID uint) error

	// Assign runs the installation transaction and returns the new ESP id.
	Assign(ctx context.Context, req *AssignRequest) (uint, error)

	Inventory(ctx context.Context, userID uint) ([]*InventoryCount, error)
}
