package farm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainFarm "smart-farm-monitor/internal/domain/farm"
	"smart-farm-monitor/internal/logger"
	appErrors "smart-farm-monitor/pkg/errors"
	"smart-farm-monitor/pkg/utils"
)

// Service implements farm, ESP and device use cases. Every mutation goes
// through authorizeFarm so ownership is enforced in exactly one place.
type Service struct {
	repo domainFarm.Repository
}

func NewService(repo domainFarm.Repository) *Service {
	return &Service{repo: repo}
}

// authorizeFarm loads the farm and rejects callers that do not own it.
func (s *Service) authorizeFarm(ctx context.Context, userID, farmID uint) (*domainFarm.Farm, error) {
	farm, err := s.repo.GetFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm.UserID != userID {
		logger.Warn("farm access denied",
			zap.Uint("user_id", userID),
			zap.Uint("farm_id", farmID),
			zap.String("event", "ownership_violation"))
		return nil, appErrors.ErrNotOwner
	}
	return farm, nil
}

func (s *Service) CreateFarm(ctx context.Context, userID uint, req *CreateFarmRequest) (*FarmResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	farm := &domainFarm.Farm{
		UserID:    userID,
		Name:      utils.SanitizeString(req.FarmName),
		Location:  req.Location,
		Size:      req.FarmSize,
		PlantName: utils.SanitizeString(req.Crop),
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateFarm(ctx, farm); err != nil {
		return nil, err
	}

	logger.Info("farm created",
		zap.Uint("user_id", userID),
		zap.Uint("farm_id", farm.ID),
		zap.String("plant", farm.PlantName))

	return toFarmResponse(farm), nil
}

func (s *Service) ListFarms(ctx context.Context, userID uint) ([]*FarmListItem, error) {
	farms, err := s.repo.ListFarms(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]*FarmListItem, 0, len(farms))
	for _, f := range farms {
		items = append(items, &FarmListItem{
			FarmID:    f.ID,
			FarmName:  f.Name,
			Location:  f.Location,
			PlantedAt: f.CreatedAt,
		})
	}
	return items, nil
}

// FarmTree returns every farm with its ESPs, each carrying its single
// attached device.
func (s *Service) FarmTree(ctx context.Context, userID uint) ([]*FarmTreeResponse, error) {
	farms, err := s.repo.ListFarms(ctx, userID)
	if err != nil {
		return nil, err
	}

	tree := make([]*FarmTreeResponse, 0, len(farms))
	for _, f := range farms {
		esps, err := s.repo.ListESPs(ctx, f.ID)
		if err != nil {
			return nil, err
		}

		espIDs := make([]uint, 0, len(esps))
		for _, e := range esps {
			espIDs = append(espIDs, e.ID)
		}

		sensors, err := s.repo.ListSensors(ctx, espIDs)
		if err != nil {
			return nil, err
		}
		actuators, err := s.repo.ListActuators(ctx, espIDs)
		if err != nil {
			return nil, err
		}

		sensorByESP := make(map[uint]*domainFarm.Sensor)
		for _, sn := range sensors {
			if _, ok := sensorByESP[sn.ESPID]; !ok {
				sensorByESP[sn.ESPID] = sn
			}
		}
		actuatorByESP := make(map[uint]*domainFarm.Actuator)
		for _, a := range actuators {
			if _, ok := actuatorByESP[a.ESPID]; !ok {
				actuatorByESP[a.ESPID] = a
			}
		}

		node := &FarmTreeResponse{
			FarmID:    f.ID,
			FarmName:  f.Name,
			Location:  f.Location,
			FarmSize:  f.Size,
			PlantName: f.PlantName,
			ESPs:      make([]*ESPResponse, 0, len(esps)),
		}
		for _, e := range esps {
			node.ESPs = append(node.ESPs, &ESPResponse{
				ESPID:       e.ID,
				ESPName:     e.Name,
				IPAddress:   e.IPAddress,
				IsConnected: e.IsConnected,
				Device:      deviceForESP(sensorByESP[e.ID], actuatorByESP[e.ID]),
			})
		}
		tree = append(tree, node)
	}
	return tree, nil
}

func deviceForESP(sn *domainFarm.Sensor, a *domainFarm.Actuator) *DeviceResponse {
	if sn != nil {
		return &DeviceResponse{
			Kind:       domainFarm.DeviceKindSensor,
			ID:         sn.ID,
			Name:       sn.Name,
			DeviceName: sn.DeviceName,
			DeviceType: sn.Type,
			GPIOPin:    sn.GPIOPin,
		}
	}
	if a != nil {
		return &DeviceResponse{
			Kind:       domainFarm.DeviceKindActuator,
			ID:         a.ID,
			Name:       a.Name,
			DeviceName: a.DeviceName,
			DeviceType: a.Type,
			GPIOPin:    a.GPIOPin,
		}
	}
	return nil
}

func (s *Service) GetESP(ctx context.Context, userID, farmID, espID uint) (*ESPResponse, error) {
	if _, err := s.authorizeFarm(ctx, userID, farmID); err != nil {
		return nil, err
	}

	esp, err := s.repo.GetESP(ctx, farmID, espID)
	if err != nil {
		return nil, err
	}

	sensors, err := s.repo.ListSensors(ctx, []uint{esp.ID})
	if err != nil {
		return nil, err
	}
	actuators, err := s.repo.ListActuators(ctx, []uint{esp.ID})
	if err != nil {
		return nil, err
	}

	var sn *domainFarm.Sensor
	if len(sensors) > 0 {
		sn = sensors[0]
	}
	var a *domainFarm.Actuator
	if len(actuators) > 0 {
		a = actuators[0]
	}

	return &ESPResponse{
		ESPID:       esp.ID,
		FarmID:      esp.FarmID,
		ESPName:     esp.Name,
		IPAddress:   esp.IPAddress,
		IsConnected: esp.IsConnected,
		Device:      deviceForESP(sn, a),
	}, nil
}

// CreateESP registers a board with its single device after the inventory
// check inside the repository transaction.
func (s *Service) CreateESP(ctx context.Context, userID, farmID uint, req *CreateESPRequest) (uint, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if req.DeviceType != domainFarm.DeviceKindSensor && req.DeviceType != domainFarm.DeviceKindActuator {
		return 0, domainFarm.ErrInvalidDeviceKind
	}

	if _, err := s.authorizeFarm(ctx, userID, farmID); err != nil {
		return 0, err
	}

	esp := &domainFarm.ESP{
		FarmID:    farmID,
		Name:      utils.SanitizeString(req.ESPName),
		IPAddress: req.IPAddress,
		CreatedAt: time.Now(),
	}
	device := &domainFarm.NewDevice{
		Kind:    req.DeviceType,
		Type:    req.DeviceSubtype,
		Name:    utils.SanitizeString(req.DeviceName),
		GPIOPin: *req.GPIOPin,
		Unit:    req.Unit,
	}

	if err := s.repo.CreateESPWithDevice(ctx, esp, device); err != nil {
		return 0, err
	}

	logger.Info("esp registered",
		zap.Uint("farm_id", farmID),
		zap.Uint("esp_id", esp.ID),
		zap.String("device_type", req.DeviceSubtype))

	return esp.ID, nil
}

// AddDevice attaches a sensor or actuator to an existing ESP.
func (s *Service) AddDevice(ctx context.Context, userID, farmID, espID uint, req *AddDeviceRequest) (uint, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.authorizeFarm(ctx, userID, farmID); err != nil {
		return 0, err
	}

	belongs, err := s.repo.ESPBelongsToFarm(ctx, espID, farmID)
	if err != nil {
		return 0, err
	}
	if !belongs {
		return 0, domainFarm.ErrESPNotInFarm
	}

	switch req.DeviceType {
	case domainFarm.DeviceKindSensor:
		if req.SensorType == nil || *req.SensorType == "" {
			return 0, appErrors.NewAppError("VALIDATION_ERROR", "sensor_type is required", nil)
		}
		sensor := &domainFarm.Sensor{
			ESPID:    espID,
			Type:     *req.SensorType,
			Name:     utils.SanitizeString(req.DeviceName),
			GPIOPin:  *req.GPIOPin,
			IsActive: true,
		}
		if err := s.repo.CreateSensor(ctx, sensor); err != nil {
			return 0, err
		}
		return sensor.ID, nil

	case domainFarm.DeviceKindActuator:
		if req.ActuatorType == nil || *req.ActuatorType == "" {
			return 0, appErrors.NewAppError("VALIDATION_ERROR", "actuator_type is required", nil)
		}
		actuator := &domainFarm.Actuator{
			ESPID:    espID,
			Type:     *req.ActuatorType,
			Name:     utils.SanitizeString(req.DeviceName),
			GPIOPin:  *req.GPIOPin,
			IsActive: true,
		}
		if err := s.repo.CreateActuator(ctx, actuator); err != nil {
			return 0, err
		}
		return actuator.ID, nil

	default:
		return 0, domainFarm.ErrInvalidDeviceKind
	}
}

// DeleteFarm removes the farm row only. ESPs and their devices survive;
// orphaned boards remain queryable by id.
func (s *Service) DeleteFarm(ctx context.Context, userID, farmID uint) error {
	if _, err := s.authorizeFarm(ctx, userID, farmID); err != nil {
		return err
	}
	return s.repo.DeleteFarm(ctx, farmID)
}

func (s *Service) DeleteESP(ctx context.Context, userID, farmID, espID uint) error {
	if _, err := s.authorizeFarm(ctx, userID, farmID); err != nil {
		return err
	}
	return s.repo.DeleteESP(ctx, farmID, espID)
}

func (s *Service) ListFarmTypes(ctx context.Context, userID uint) ([]*FarmTypeResponse, error) {
	farms, err := s.repo.ListFarms(ctx, userID)
	if err != nil {
		return nil, err
	}

	types := make([]*FarmTypeResponse, 0, len(farms))
	for _, f := range farms {
		types = append(types, &FarmTypeResponse{
			FarmName:     f.Name,
			PlantName:    f.PlantName,
			Temperature:  f.TemperatureOptimal,
			Humidity:     f.HumidityOptimal,
			SoilMoisture: f.SoilMoistureOptimal,
		})
	}
	return types, nil
}

// SaveFarmSettings updates the optimal environment targets for the named
// farm. Returns false when no farm with that name belongs to the caller.
func (s *Service) SaveFarmSettings(ctx context.Context, userID uint, req *FarmSettingsRequest) (bool, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return false, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	return s.repo.UpdateFarmSettings(ctx, userID, req.FarmName, req.Temperature, req.Humidity, req.SoilMoisture)
}

func (s *Service) ListConditions(ctx context.Context, userID uint) ([]*ConditionResponse, error) {
	conditions, err := s.repo.ListConditions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*ConditionResponse, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, toConditionResponse(c))
	}
	return out, nil
}

func (s *Service) CreateCondition(ctx context.Context, userID uint, req *CreateConditionRequest) (*ConditionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.authorizeFarm(ctx, userID, req.FarmID); err != nil {
		return nil, err
	}

	condition := &domainFarm.AutomationCondition{
		UserID:     userID,
		FarmID:     req.FarmID,
		SensorID:   req.SensorID,
		ActuatorID: req.ActuatorID,
		Trigger:    req.Trigger,
		Threshold:  req.Threshold,
	}
	if err := s.repo.CreateCondition(ctx, condition); err != nil {
		return nil, err
	}

	return toConditionResponse(condition), nil
}

func (s *Service) DeleteCondition(ctx context.Context, userID, conditionID uint) error {
	err := s.repo.DeleteCondition(ctx, userID, conditionID)
	if err != nil && !errors.Is(err, domainFarm.ErrConditionNotFound) {
		logger.Error("failed to delete automation condition",
			zap.Uint("condition_id", conditionID),
			zap.Error(err))
	}
	return err
}
