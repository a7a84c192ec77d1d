package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domainFarm "smart-farm-monitor/internal/domain/farm"
	domainStore "smart-farm-monitor/internal/domain/store"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// StoreRepository implements domain store.Repository on GORM.
type StoreRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) domainStore.Repository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) ListItems(ctx context.Context) ([]*domainStore.Item, error) {
	var rows []models.StoreItemModel
	err := r.db.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("store_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list store items: %w", err)
	}

	items := make([]*domainStore.Item, 0, len(rows))
	for i := range rows {
		items = append(items, toItemEntity(&rows[i]))
	}
	return items, nil
}

func (r *StoreRepository) GetItem(ctx context.Context, itemID uint) (*domainStore.Item, error) {
	var model models.StoreItemModel
	if err := r.db.DB.WithContext(ctx).First(&model, "store_id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainStore.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get store item: %w", err)
	}
	return toItemEntity(&model), nil
}

func (r *StoreRepository) CreateItem(ctx context.Context, item *domainStore.Item) error {
	now := time.Now()
	model := models.StoreItemModel{
		Name:          item.Name,
		Type:          item.Type,
		Subtype:       item.Subtype,
		Price:         item.Price,
		ImageURL:      item.ImageURL,
		Description:   item.Description,
		Details:       item.Details,
		Communication: item.Communication,
		Stock:         item.Stock,
		IsActive:      item.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.DB.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create store item: %w", err)
	}
	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *StoreRepository) UpdateItem(ctx context.Context, item *domainStore.Item) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.StoreItemModel{}).
		Where("store_id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":          item.Name,
			"type":          item.Type,
			"subtype":       item.Subtype,
			"price":         item.Price,
			"image_url":     item.ImageURL,
			"description":   item.Description,
			"details":       item.Details,
			"communication": item.Communication,
			"stock":         item.Stock,
			"is_active":     item.IsActive,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update store item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainStore.ErrItemNotFound
	}
	return nil
}

// Purchase creates one user_devices row per unit bought. A single unknown
// store id fails the whole checkout; stock is informational only and is
// not decremented here.
func (r *StoreRepository) Purchase(ctx context.Context, userID uint, items []domainStore.PurchaseItem) (int, error) {
	created := 0
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			var catalog models.StoreItemModel
			if err := tx.First(&catalog, "store_id = ?", item.StoreID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainStore.ErrItemNotFound
				}
				return fmt.Errorf("failed to load store item: %w", err)
			}

			for i := 0; i < item.Quantity; i++ {
				device := models.UserDeviceModel{
					UserID:        userID,
					StoreID:       catalog.ID,
					Name:          catalog.Name,
					DeviceType:    catalog.Type,
					DeviceSubtype: catalog.Subtype,
					Status:        domainStore.StatusUnassigned,
					CreatedAt:     time.Now(),
				}
				if err := tx.Create(&device).Error; err != nil {
					return fmt.Errorf("failed to create user device: %w", err)
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *StoreRepository) ListDevices(ctx context.Context, userID uint, status string) ([]*domainStore.UserDevice, error) {
	query := r.db.DB.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rows []models.UserDeviceModel
	if err := query.Order("device_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user devices: %w", err)
	}

	devices := make([]*domainStore.UserDevice, 0, len(rows))
	for i := range rows {
		devices = append(devices, toUserDeviceEntity(&rows[i]))
	}
	return devices, nil
}

func (r *StoreRepository) DeleteDevice(ctx context.Context, deviceID uint) error {
	result := r.db.DB.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&models.UserDeviceModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainStore.ErrDeviceNotFound
	}
	return nil
}

// Assign installs an unassigned purchased device: a new ESP row is created
// on the target farm and a sensor or actuator row is attached to it, then
// the device is marked assigned. Returns the new ESP id.
func (r *StoreRepository) Assign(ctx context.Context, req *domainStore.AssignRequest) (uint, error) {
	var espID uint
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var device models.UserDeviceModel
		err := tx.First(&device, "device_id = ? AND status = ?", req.DeviceID, domainStore.StatusUnassigned).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainStore.ErrDeviceNotAssignable
			}
			return fmt.Errorf("failed to load user device: %w", err)
		}

		var farm models.FarmModel
		if err := tx.First(&farm, "farm_id = ?", req.FarmID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainFarm.ErrFarmNotFound
			}
			return fmt.Errorf("failed to load farm: %w", err)
		}

		name := req.CustomName
		if name == "" {
			name = device.Name
		}

		esp := models.ESPModel{
			FarmID:    farm.ID,
			ESPName:   name,
			IPAddress: req.ESPIP,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&esp).Error; err != nil {
			return fmt.Errorf("failed to create esp: %w", err)
		}

		switch device.DeviceType {
		case domainFarm.DeviceKindSensor:
			sensor := models.SensorModel{
				ESPID:      esp.ID,
				SensorType: device.DeviceSubtype,
				SensorName: name,
				DeviceName: &device.Name,
				GPIOPin:    device.GPIOPin,
				Unit:       device.Unit,
				IsActive:   true,
			}
			if err := tx.Create(&sensor).Error; err != nil {
				return fmt.Errorf("failed to create sensor: %w", err)
			}
		case domainFarm.DeviceKindActuator:
			actuator := models.ActuatorModel{
				ESPID:        esp.ID,
				ActuatorType: device.DeviceSubtype,
				ActuatorName: name,
				DeviceName:   &device.Name,
				GPIOPin:      device.GPIOPin,
				IsActive:     true,
			}
			if err := tx.Create(&actuator).Error; err != nil {
				return fmt.Errorf("failed to create actuator: %w", err)
			}
		default:
			return domainFarm.ErrInvalidDeviceKind
		}

		updates := map[string]interface{}{
			"status":           domainStore.StatusAssigned,
			"assigned_farm_id": farm.ID,
			"assigned_esp_id":  esp.ID,
		}
		if err := tx.Model(&models.UserDeviceModel{}).Where("device_id = ?", device.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark device assigned: %w", err)
		}

		espID = esp.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return espID, nil
}

// Inventory counts owned devices per catalog type and how many of them
// are currently assigned.
func (r *StoreRepository) Inventory(ctx context.Context, userID uint) ([]*domainStore.InventoryCount, error) {
	type countRow struct {
		DeviceSubtype string
		Total         int
		Used          int
	}
	var rows []countRow
	err := r.db.DB.WithContext(ctx).
		Model(&models.UserDeviceModel{}).
		Select("device_subtype, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS used", domainStore.StatusAssigned).
		Where("user_id = ?", userID).
		Group("device_subtype").
		Order("device_subtype ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count inventory: %w", err)
	}

	counts := make([]*domainStore.InventoryCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, &domainStore.InventoryCount{
			Type:   row.DeviceSubtype,
			Total:  row.Total,
			Used:   row.Used,
			Remain: row.Total - row.Used,
		})
	}
	return counts, nil
}

func toItemEntity(m *models.StoreItemModel) *domainStore.Item {
	return &domainStore.Item{
		ID:            m.ID,
		Name:          m.Name,
		Type:          m.Type,
		Subtype:       m.Subtype,
		Price:         m.Price,
		ImageURL:      m.ImageURL,
		Description:   m.Description,
		Details:       m.Details,
		Communication: m.Communication,
		Stock:         m.Stock,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toUserDeviceEntity(m *models.UserDeviceModel) *domainStore.UserDevice {
	return &domainStore.UserDevice{
		ID:             m.ID,
		UserID:         m.UserID,
		StoreID:        m.StoreID,
		Name:           m.Name,
		DeviceType:     m.DeviceType,
		DeviceSubtype:  m.DeviceSubtype,
		GPIOPin:        m.GPIOPin,
		Unit:           m.Unit,
		Status:         m.Status,
		AssignedFarmID: m.AssignedFarmID,
		AssignedESPID:  m.AssignedESPID,
		CreatedAt:      m.CreatedAt,
	}
}
