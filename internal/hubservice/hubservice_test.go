package hubservice

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
)

// Fixed clock for all service tests.
var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

// In-memory fakes for the store interfaces. They mimic the documented
// repository semantics (not-found, conflict, ordering) without a database.

type fakeDeviceRepo struct {
	devices []*models.Device
}

func (f *fakeDeviceRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) Create(ctx context.Context, device *models.Device) error {
	for _, d := range f.devices {
		if d.SensorID == device.SensorID {
			return errors.NewConflictError("device already registered", nil)
		}
	}
	copied := *device
	f.devices = append(f.devices, &copied)
	return nil
}

func (f *fakeDeviceRepo) Get(ctx context.Context, sensorID string) (*models.Device, error) {
	for _, d := range f.devices {
		if d.SensorID == sensorID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDeviceRepo) Update(ctx context.Context, device *models.Device) error {
	for i, d := range f.devices {
		if d.SensorID == device.SensorID {
			copied := *device
			f.devices[i] = &copied
			return nil
		}
	}
	return errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDeviceRepo) Delete(ctx context.Context, sensorID string) error {
	for i, d := range f.devices {
		if d.SensorID == sensorID {
			f.devices = append(f.devices[:i], f.devices[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("device not found", nil)
}

func (f *fakeDeviceRepo) List(ctx context.Context) ([]*models.Device, error) {
	out := make([]*models.Device, len(f.devices))
	for i, d := range f.devices {
		copied := *d
		out[i] = &copied
	}
	return out, nil
}

type fakeReadingRepo struct {
	readings []models.SensorReading
	failAll  bool
}

var errStoreDown = errors.NewDatabaseError("store unavailable", nil)

func (f *fakeReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (f *fakeReadingRepo) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	if f.failAll {
		return errStoreDown
	}
	f.readings = append(f.readings, *reading)
	return nil
}

func (f *fakeReadingRepo) GetReadingsSince(ctx context.Context, since time.Time) ([]models.SensorReading, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	out := []models.SensorReading{}
	for _, r := range f.readings {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	sortByTime(out)
	return out, nil
}

func (f *fakeReadingRepo) GetReadingsBetween(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	out := []models.SensorReading{}
	for _, r := range f.readings {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	sortByTime(out)
	return out, nil
}

func (f *fakeReadingRepo) GetSensorHistory(ctx context.Context, sensorID string, since time.Time, limit int) ([]models.SensorReading, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	out := []models.SensorReading{}
	for _, r := range f.readings {
		if r.SensorID == sensorID && !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	sortByTime(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReadingRepo) GetLatestReading(ctx context.Context, sensorID string) (*models.SensorReading, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	var latest *models.SensorReading
	for i, r := range f.readings {
		if r.SensorID != sensorID {
			continue
		}
		if latest == nil || r.Timestamp.After(latest.Timestamp) {
			latest = &f.readings[i]
		}
	}
	if latest == nil {
		return nil, errors.NewNotFoundError("no readings for sensor", nil)
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeReadingRepo) GetLatestReadings(ctx context.Context) (map[string]*models.SensorReading, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	out := map[string]*models.SensorReading{}
	for i, r := range f.readings {
		if existing, ok := out[r.SensorID]; !ok || r.Timestamp.After(existing.Timestamp) {
			copied := f.readings[i]
			out[r.SensorID] = &copied
		}
	}
	return out, nil
}

func (f *fakeReadingRepo) GetRecentReadings(ctx context.Context, sensorID string, limit int) ([]models.SensorReading, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	out := []models.SensorReading{}
	for _, r := range f.readings {
		if sensorID == "" || r.SensorID == sensorID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReadingRepo) GetActiveSensorIDs(ctx context.Context, since time.Time) ([]string, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	seen := map[string]bool{}
	ids := []string{}
	for _, r := range f.readings {
		if !r.Timestamp.Before(since) && !seen[r.SensorID] {
			seen[r.SensorID] = true
			ids = append(ids, r.SensorID)
		}
	}
	return ids, nil
}

func (f *fakeReadingRepo) DeleteOldData(ctx context.Context, before time.Time) error {
	kept := f.readings[:0]
	for _, r := range f.readings {
		if !r.Timestamp.Before(before) {
			kept = append(kept, r)
		}
	}
	f.readings = kept
	return nil
}

func (f *fakeReadingRepo) DeleteBySensorID(ctx context.Context, sensorID string) error {
	kept := f.readings[:0]
	for _, r := range f.readings {
		if r.SensorID != sensorID {
			kept = append(kept, r)
		}
	}
	f.readings = kept
	return nil
}

func sortByTime(readings []models.SensorReading) {
	sort.Slice(readings, func(i, j int) bool { return readings[i].Timestamp.Before(readings[j].Timestamp) })
}

type fakePredictionRepo struct {
	stored map[string]json.RawMessage
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{stored: map[string]json.RawMessage{}}
}

func (f *fakePredictionRepo) GetLatest(ctx context.Context, sensorID string) (json.RawMessage, error) {
	doc, ok := f.stored[sensorID]
	if !ok {
		return nil, errors.NewNotFoundError("no stored prediction for sensor", nil)
	}
	return doc, nil
}

func (f *fakePredictionRepo) Store(ctx context.Context, sensorID string, doc json.RawMessage) error {
	f.stored[sensorID] = doc
	return nil
}

func (f *fakePredictionRepo) Delete(ctx context.Context, sensorID string) error {
	delete(f.stored, sensorID)
	return nil
}

type fakeSettingsRepo struct {
	record *models.SettingsRecord
}

func (f *fakeSettingsRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*models.SettingsRecord, error) {
	if f.record == nil {
		return nil, errors.NewNotFoundError("settings not found", nil)
	}
	return f.record, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, config json.RawMessage) error {
	f.record = &models.SettingsRecord{Type: "global", Config: []byte(config), UpdatedAt: testNow}
	return nil
}

type fakeForecaster struct {
	doc       json.RawMessage
	err       error
	lastHours int
	calls     int
}

func (f *fakeForecaster) Generate(ctx context.Context, sensorID string, hoursAhead int) (json.RawMessage, error) {
	f.calls++
	f.lastHours = hoursAhead
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeForecaster) DefaultHours() int { return 6 }

type testEnv struct {
	svc         *HubService
	devices     *fakeDeviceRepo
	readings    *fakeReadingRepo
	predictions *fakePredictionRepo
	settings    *fakeSettingsRepo
	forecaster  *fakeForecaster
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		devices:     &fakeDeviceRepo{},
		readings:    &fakeReadingRepo{},
		predictions: newFakePredictionRepo(),
		settings:    &fakeSettingsRepo{},
		forecaster:  &fakeForecaster{doc: json.RawMessage(`{"sensor_id":"S1","predictions":[]}`)},
	}
	env.svc = New(env.devices, env.readings, env.predictions, env.settings,
		env.forecaster, time.UTC, "http://localhost:3001")
	env.svc.now = func() time.Time { return testNow }
	return env
}

func addReading(repo *fakeReadingRepo, sensorID string, aqi, co2 float64, ts time.Time) {
	repo.readings = append(repo.readings, models.SensorReading{
		SensorID:      sensorID,
		AQICalculated: aqi,
		CO2PPM:        co2,
		Temperature:   24.5,
		Humidity:      60,
		Timestamp:     ts,
	})
}

func addDevice(repo *fakeDeviceRepo, sensorID, name, location string) {
	repo.devices = append(repo.devices, &models.Device{
		SensorID:      sensorID,
		Name:          name,
		Location:      location,
		Status:        models.DeviceStatusActive,
		InstalledDate: testNow,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	})
}
