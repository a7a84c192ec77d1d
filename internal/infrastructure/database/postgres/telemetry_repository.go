package postgres

import (
	"context"
	"fmt"
	"time"

	domainTelemetry "smart-farm-monitor/internal/domain/telemetry"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// TelemetryRepository implements domain telemetry.Repository on GORM.
// Aggregations return flat (bucket, type, value) rows; pivoting by sensor
// type happens in the dashboard service.
type TelemetryRepository struct {
	db *DB
}

func NewTelemetryRepository(db *DB) domainTelemetry.Repository {
	return &TelemetryRepository{db: db}
}

func (r *TelemetryRepository) BatchInsert(ctx context.Context, logs []domainTelemetry.SensorLog) error {
	if len(logs) == 0 {
		return nil
	}

	rows := make([]models.SensorLogModel, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, models.SensorLogModel{
			SensorID:    l.SensorID,
			SensorType:  l.Type,
			SensorValue: l.Value,
			Time:        l.Time,
		})
	}

	if err := r.db.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to batch insert sensor logs: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) SensorTypes(ctx context.Context, farmID uint) ([]string, error) {
	var types []string
	err := r.db.DB.WithContext(ctx).
		Model(&models.SensorModel{}).
		Distinct("sensors.sensor_type").
		Joins("JOIN esps ON sensors.esp_id = esps.esp_id").
		Where("esps.farm_id = ?", farmID).
		Pluck("sensors.sensor_type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sensor types: %w", err)
	}
	return types, nil
}

func (r *TelemetryRepository) LatestReadings(ctx context.Context, farmID uint) ([]domainTelemetry.TypedReading, error) {
	var maxTime *time.Time
	err := r.db.DB.WithContext(ctx).
		Model(&models.SensorLogModel{}).
		Select("MAX(sensor_logs.time)").
		Joins("JOIN sensors ON sensor_logs.sensor_id = sensors.sensor_id").
		Joins("JOIN esps ON sensors.esp_id = esps.esp_id").
		Where("esps.farm_id = ?", farmID).
		Scan(&maxTime).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find latest log time: %w", err)
	}
	if maxTime == nil {
		return nil, nil
	}

	type readingRow struct {
		Time        time.Time
		SensorType  string
		SensorValue float64
	}
	var rows []readingRow
	err = r.db.DB.WithContext(ctx).
		Model(&models.SensorLogModel{}).
		Select("sensor_logs.time, sensor_logs.sensor_type, MAX(sensor_logs.sensor_value) AS sensor_value").
		Joins("JOIN sensors ON sensor_logs.sensor_id = sensors.sensor_id").
		Joins("JOIN esps ON sensors.esp_id = esps.esp_id").
		Where("esps.farm_id = ? AND sensor_logs.time = ?", farmID, *maxTime).
		Group("sensor_logs.time, sensor_logs.sensor_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest readings: %w", err)
	}

	readings := make([]domainTelemetry.TypedReading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, domainTelemetry.TypedReading{
			Time:  row.Time,
			Type:  row.SensorType,
			Value: row.SensorValue,
		})
	}
	return readings, nil
}

func (r *TelemetryRepository) HourlyAverages(ctx context.Context, farmID uint) ([]domainTelemetry.TypedAverage, error) {
	since := time.Now().Add(-24 * time.Hour)
	return r.averages(ctx, farmID, since, time.Now(), time.Hour)
}

func (r *TelemetryRepository) DailyAverages(ctx context.Context, farmID uint, start, end time.Time) ([]domainTelemetry.TypedAverage, error) {
	return r.averages(ctx, farmID, start, end, 24*time.Hour)
}

// averages loads raw rows for the window and buckets them in Go, which
// keeps the query portable across postgres and the sqlite test driver
// (date_trunc vs strftime).
func (r *TelemetryRepository) averages(ctx context.Context, farmID uint, start, end time.Time, bucket time.Duration) ([]domainTelemetry.TypedAverage, error) {
	type logRow struct {
		Time        time.Time
		SensorType  string
		SensorValue float64
	}
	var rows []logRow
	err := r.db.DB.WithContext(ctx).
		Model(&models.SensorLogModel{}).
		Select("sensor_logs.time, sensor_logs.sensor_type, sensor_logs.sensor_value").
		Joins("JOIN sensors ON sensor_logs.sensor_id = sensors.sensor_id").
		Joins("JOIN esps ON sensors.esp_id = esps.esp_id").
		Where("esps.farm_id = ? AND sensor_logs.time >= ? AND sensor_logs.time <= ?", farmID, start, end).
		Order("sensor_logs.time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sensor logs: %w", err)
	}

	type key struct {
		bucket time.Time
		typ    string
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	order := make([]key, 0)

	for _, row := range rows {
		k := key{bucket: row.Time.Truncate(bucket), typ: row.SensorType}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		sums[k] += row.SensorValue
		counts[k]++
	}

	averages := make([]domainTelemetry.TypedAverage, 0, len(order))
	for _, k := range order {
		averages = append(averages, domainTelemetry.TypedAverage{
			Bucket: k.bucket,
			Type:   k.typ,
			Value:  sums[k] / float64(counts[k]),
		})
	}
	return averages, nil
}

func (r *TelemetryRepository) DeviceStatuses(ctx context.Context, userID uint) ([]domainTelemetry.DeviceStatus, error) {
	type statusRow struct {
		DeviceID     uint
		DeviceStatus string
		UpdatedAt    time.Time
	}
	var rows []statusRow
	err := r.db.DB.WithContext(ctx).
		Model(&models.DeviceStatusModel{}).
		Select("device_status.device_id, device_status.device_status, device_status.updated_at").
		Joins("JOIN user_devices ON device_status.device_id = user_devices.device_id").
		Where("user_devices.user_id = ?", userID).
		Order("device_status.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load device statuses: %w", err)
	}

	statuses := make([]domainTelemetry.DeviceStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, domainTelemetry.DeviceStatus{
			DeviceID:  row.DeviceID,
			Status:    row.DeviceStatus,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return statuses, nil
}
