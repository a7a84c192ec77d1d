package store

import (
	"context"

	"go.uber.org/zap"

	domainFarm "smart-farm-monitor/internal/domain/farm"
	domainStore "smart-farm-monitor/internal/domain/store"
	"smart-farm-monitor/internal/logger"
	appErrors "smart-farm-monitor/pkg/errors"
	"smart-farm-monitor/pkg/utils"
)

// Service implements store catalog and purchased-device use cases.
type Service struct {
	repo     domainStore.Repository
	farmRepo domainFarm.Repository
}

func NewService(repo domainStore.Repository, farmRepo domainFarm.Repository) *Service {
	return &Service{repo: repo, farmRepo: farmRepo}
}

func (s *Service) ListItems(ctx context.Context) ([]*ItemResponse, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out, nil
}

func (s *Service) GetItem(ctx context.Context, itemID uint) (*ItemResponse, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// CreateItem adds a catalog row. New items default to active unless the
// request says otherwise.
func (s *Service) CreateItem(ctx context.Context, req *SaveItemRequest) (*ItemResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	item := &domainStore.Item{
		Name:          utils.SanitizeString(req.Name),
		Type:          req.Type,
		Subtype:       req.Subtype,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		Details:       req.Details,
		Communication: req.Communication,
		Stock:         req.Stock,
		IsActive:      active,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	logger.Info("catalog item created",
		zap.Uint("store_id", item.ID),
		zap.String("name", item.Name))
	return toItemResponse(item), nil
}

// UpdateItem replaces a catalog row with the request payload.
func (s *Service) UpdateItem(ctx context.Context, itemID uint, req *SaveItemRequest) (*ItemResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	current, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	active := current.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}

	item := &domainStore.Item{
		ID:            itemID,
		Name:          utils.SanitizeString(req.Name),
		Type:          req.Type,
		Subtype:       req.Subtype,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		Details:       req.Details,
		Communication: req.Communication,
		Stock:         req.Stock,
		IsActive:      active,
		CreatedAt:     current.CreatedAt,
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Purchase checks out the whole cart in one transaction and returns the
// number of device rows created.
func (s *Service) Purchase(ctx context.Context, userID uint, req *PurchaseRequest) (int, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	items := make([]domainStore.PurchaseItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, domainStore.PurchaseItem{
			StoreID:  line.StoreID,
			Quantity: line.Quantity,
		})
	}

	created, err := s.repo.Purchase(ctx, userID, items)
	if err != nil {
		return 0, err
	}

	logger.Info("purchase completed",
		zap.Uint("user_id", userID),
		zap.Int("devices_created", created))

	return created, nil
}

func (s *Service) ListDevices(ctx context.Context, userID uint, status string) ([]*DeviceResponse, error) {
	devices, err := s.repo.ListDevices(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	out := make([]*DeviceResponse, 0, len(devices))
	for _, d := range devices {
		out = append(out, toDeviceResponse(d))
	}
	return out, nil
}

func (s *Service) Inventory(ctx context.Context, userID uint) ([]*InventoryResponse, error) {
	counts, err := s.repo.Inventory(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*InventoryResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, &InventoryResponse{
			Type:   c.Type,
			Total:  c.Total,
			Used:   c.Used,
			Remain: c.Remain,
		})
	}
	return out, nil
}

// Assign installs a purchased device onto one of the caller's farms.
// Returns the id of the ESP created by the installation.
func (s *Service) Assign(ctx context.Context, userID, deviceID uint, req *AssignDeviceRequest) (uint, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	farm, err := s.farmRepo.GetFarm(ctx, req.FarmID)
	if err != nil {
		return 0, err
	}
	if farm.UserID != userID {
		return 0, appErrors.ErrNotOwner
	}

	espID, err := s.repo.Assign(ctx, &domainStore.AssignRequest{
		DeviceID:   deviceID,
		FarmID:     req.FarmID,
		ESPIP:      req.ESPIP,
		CustomName: utils.SanitizeString(req.CustomName),
	})
	if err != nil {
		return 0, err
	}

	logger.Info("device assigned",
		zap.Uint("user_id", userID),
		zap.Uint("device_id", deviceID),
		zap.Uint("esp_id", espID))

	return espID, nil
}

func (s *Service) DeleteDevice(ctx context.Context, userID, deviceID uint) error {
	devices, err := s.repo.ListDevices(ctx, userID, "")
	if err != nil {
		return err
	}

	owned := false
	for _, d := range devices {
		if d.ID == deviceID {
			owned = true
			break
		}
	}
	if !owned {
		return domainStore.ErrDeviceNotFound
	}

	return s.repo.DeleteDevice(ctx, deviceID)
}
