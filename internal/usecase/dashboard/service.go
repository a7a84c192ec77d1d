package dashboard

import (
	"context"
	"errors"
	"time"

	domainFarm "smart-farm-monitor/internal/domain/farm"
	domainTelemetry "smart-farm-monitor/internal/domain/telemetry"
	appErrors "smart-farm-monitor/pkg/errors"
)

// Time windows accepted by the history graph.
var ErrInvalidTimeFrame = errors.New("timeFrame must be 7days or 30days")

var timeFrames = map[string]int{
	"7days":  7,
	"30days": 30,
}

// Service aggregates farm telemetry for the dashboard views. Each view
// runs its queries independently; nothing is cached.
type Service struct {
	farmRepo      domainFarm.Repository
	telemetryRepo domainTelemetry.Repository
}

func NewService(farmRepo domainFarm.Repository, telemetryRepo domainTelemetry.Repository) *Service {
	return &Service{farmRepo: farmRepo, telemetryRepo: telemetryRepo}
}

// Dashboard builds the farm overview: crop record, device lists, the
// latest reading per sensor type and hourly averages over 24h.
func (s *Service) Dashboard(ctx context.Context, userID, farmID uint) (*DashboardResponse, error) {
	farm, err := s.farmRepo.GetFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm.UserID != userID {
		return nil, appErrors.ErrNotOwner
	}

	plantedAt := farm.CreatedAt
	resp := &DashboardResponse{
		Crop:      farm.PlantName,
		PlantedAt: &plantedAt,
	}

	esps, err := s.farmRepo.ListESPs(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if len(esps) == 0 {
		return resp, nil
	}

	espIDs := make([]uint, 0, len(esps))
	for _, e := range esps {
		espIDs = append(espIDs, e.ID)
	}

	sensors, err := s.farmRepo.ListSensors(ctx, espIDs)
	if err != nil {
		return nil, err
	}
	for _, sn := range sensors {
		resp.Sensors = append(resp.Sensors, &SensorInfo{
			ID:          sn.ID,
			Type:        sn.Type,
			Name:        sn.Name,
			Pin:         sn.GPIOPin,
			Unit:        sn.Unit,
			Active:      sn.IsActive,
			InstalledAt: sn.InstalledAt,
		})
	}

	actuators, err := s.farmRepo.ListActuators(ctx, espIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range actuators {
		resp.Actuators = append(resp.Actuators, &ActuatorInfo{
			ID:          a.ID,
			Type:        a.Type,
			Name:        a.Name,
			Pin:         a.GPIOPin,
			Active:      a.IsActive,
			InstalledAt: a.InstalledAt,
		})
	}

	if len(sensors) == 0 {
		return resp, nil
	}

	latest, err := s.telemetryRepo.LatestReadings(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 {
		reading := PivotedReading{"time": latest[0].Time}
		for _, r := range latest {
			reading[r.Type] = r.Value
		}
		resp.SensorLogs = []PivotedReading{reading}
	}

	hourly, err := s.telemetryRepo.HourlyAverages(ctx, farmID)
	if err != nil {
		return nil, err
	}
	resp.HourlyAverages = pivotAverages(hourly, "time")

	return resp, nil
}

// History returns daily sensor-type averages over the requested window.
func (s *Service) History(ctx context.Context, userID, farmID uint, timeFrame string) ([]GraphPoint, error) {
	days, ok := timeFrames[timeFrame]
	if !ok {
		return nil, ErrInvalidTimeFrame
	}

	farm, err := s.farmRepo.GetFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm.UserID != userID {
		return nil, appErrors.ErrNotOwner
	}

	types, err := s.telemetryRepo.SensorTypes(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return []GraphPoint{}, nil
	}

	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	averages, err := s.telemetryRepo.DailyAverages(ctx, farmID, start, end)
	if err != nil {
		return nil, err
	}

	points := make(map[string]GraphPoint)
	order := make([]string, 0)
	for _, avg := range averages {
		date := avg.Bucket.Format("2006-01-02")
		point, exists := points[date]
		if !exists {
			point = GraphPoint{"date": date}
			for _, t := range types {
				point[t] = nil
			}
			points[date] = point
			order = append(order, date)
		}
		point[avg.Type] = avg.Value
	}

	out := make([]GraphPoint, 0, len(order))
	for _, date := range order {
		out = append(out, points[date])
	}
	return out, nil
}

func pivotAverages(averages []domainTelemetry.TypedAverage, timeKey string) []PivotedReading {
	buckets := make(map[time.Time]PivotedReading)
	order := make([]time.Time, 0)
	for _, avg := range averages {
		point, exists := buckets[avg.Bucket]
		if !exists {
			point = PivotedReading{timeKey: avg.Bucket}
			buckets[avg.Bucket] = point
			order = append(order, avg.Bucket)
		}
		point[avg.Type] = avg.Value
	}

	out := make([]PivotedReading, 0, len(order))
	for _, b := range order {
		out = append(out, buckets[b])
	}
	return out
}
