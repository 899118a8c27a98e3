package server

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/liaolj/iot-board/internal/config"
	"github.com/liaolj/iot-board/internal/domain"
	"github.com/liaolj/iot-board/internal/ingest"
	"github.com/liaolj/iot-board/internal/realtime"
)

type mockReadingRepo struct {
	insertErr error
	listErr   error
	readings  []domain.EnvironmentReading
	lastLimit int
	nextID    int64
}

func (m *mockReadingRepo) Insert(_ context.Context, in domain.EnvironmentReadingInput) (*domain.EnvironmentReading, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.nextID++
	reading := domain.EnvironmentReading{
		ID:              m.nextID,
		Location:        in.Location,
		Temperature:     *in.Temperature,
		Humidity:        *in.Humidity,
		AirQualityIndex: *in.AirQualityIndex,
	}
	m.readings = append(m.readings, reading)
	return &reading, nil
}

func (m *mockReadingRepo) List(_ context.Context, limit int) ([]domain.EnvironmentReading, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.lastLimit = limit
	return m.readings, nil
}

type mockDeviceRepo struct {
	devices map[string]*domain.DeviceStatus
	nextID  int64
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: make(map[string]*domain.DeviceStatus)}
}

func (m *mockDeviceRepo) Upsert(_ context.Context, in domain.DeviceStatusInput) (*domain.DeviceStatus, error) {
	existing, ok := m.devices[in.DeviceID]
	if !ok {
		m.nextID++
		existing = &domain.DeviceStatus{ID: m.nextID, DeviceID: in.DeviceID}
		m.devices[in.DeviceID] = existing
	}
	existing.Name = in.Name
	existing.Status = in.Status
	existing.Meta = in.Meta
	copied := *existing
	return &copied, nil
}

func (m *mockDeviceRepo) GetByDeviceID(_ context.Context, deviceID string) (*domain.DeviceStatus, error) {
	status, ok := m.devices[deviceID]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	copied := *status
	return &copied, nil
}

func (m *mockDeviceRepo) List(context.Context) ([]domain.DeviceStatus, error) {
	list := make([]domain.DeviceStatus, 0, len(m.devices))
	for _, status := range m.devices {
		list = append(list, *status)
	}
	return list, nil
}

type mockAlarmRepo struct {
	alarms []domain.AlarmEvent
}

func (m *mockAlarmRepo) Insert(_ context.Context, in domain.AlarmEventInput) (*domain.AlarmEvent, error) {
	alarm := domain.AlarmEvent{
		ID:       int64(len(m.alarms) + 1),
		Code:     in.Code,
		Message:  in.Message,
		Severity: in.Severity,
		DeviceID: in.DeviceID,
	}
	m.alarms = append(m.alarms, alarm)
	return &alarm, nil
}

func (m *mockAlarmRepo) List(context.Context, int) ([]domain.AlarmEvent, error) {
	return m.alarms, nil
}

type mockAuditRepo struct {
	events []string
}

func (m *mockAuditRepo) Insert(_ context.Context, eventType string, _ map[string]any) error {
	m.events = append(m.events, eventType)
	return nil
}

type mockFieldRepo struct {
	fields map[int64]*domain.Field
	nextID int64
}

func newMockFieldRepo() *mockFieldRepo {
	return &mockFieldRepo{fields: make(map[int64]*domain.Field)}
}

func (m *mockFieldRepo) Create(_ context.Context, in domain.FieldInput) (*domain.Field, error) {
	m.nextID++
	field := &domain.Field{
		ID:           m.nextID,
		Name:         in.Name,
		Location:     in.Location,
		AreaHectares: in.AreaHectares,
		SoilType:     in.SoilType,
	}
	m.fields[field.ID] = field
	copied := *field
	return &copied, nil
}

func (m *mockFieldRepo) Get(_ context.Context, id int64) (*domain.Field, error) {
	field, ok := m.fields[id]
	if !ok {
		return nil, domain.ErrFieldNotFound
	}
	copied := *field
	return &copied, nil
}

func (m *mockFieldRepo) List(context.Context) ([]domain.Field, error) {
	list := make([]domain.Field, 0, len(m.fields))
	for _, field := range m.fields {
		list = append(list, *field)
	}
	return list, nil
}

func (m *mockFieldRepo) Update(_ context.Context, id int64, in domain.FieldInput) (*domain.Field, error) {
	field, ok := m.fields[id]
	if !ok {
		return nil, domain.ErrFieldNotFound
	}
	field.Name = in.Name
	field.Location = in.Location
	field.AreaHectares = in.AreaHectares
	field.SoilType = in.SoilType
	copied := *field
	return &copied, nil
}

func (m *mockFieldRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.fields[id]; !ok {
		return domain.ErrFieldNotFound
	}
	delete(m.fields, id)
	return nil
}

type mockCropRepo struct {
	crops map[int64]*domain.Crop
}

func newMockCropRepo() *mockCropRepo {
	return &mockCropRepo{crops: make(map[int64]*domain.Crop)}
}

func (m *mockCropRepo) Create(_ context.Context, in domain.CropInput) (*domain.Crop, error) {
	crop := &domain.Crop{
		ID:          int64(len(m.crops) + 1),
		FieldID:     in.FieldID,
		Name:        in.Name,
		Variety:     in.Variety,
		GrowthStage: in.GrowthStage,
	}
	m.crops[crop.ID] = crop
	copied := *crop
	return &copied, nil
}

func (m *mockCropRepo) Get(_ context.Context, id int64) (*domain.Crop, error) {
	crop, ok := m.crops[id]
	if !ok {
		return nil, domain.ErrCropNotFound
	}
	copied := *crop
	return &copied, nil
}

func (m *mockCropRepo) List(context.Context) ([]domain.Crop, error) {
	list := make([]domain.Crop, 0, len(m.crops))
	for _, crop := range m.crops {
		list = append(list, *crop)
	}
	return list, nil
}

func (m *mockCropRepo) Update(_ context.Context, id int64, in domain.CropInput) (*domain.Crop, error) {
	crop, ok := m.crops[id]
	if !ok {
		return nil, domain.ErrCropNotFound
	}
	crop.FieldID = in.FieldID
	crop.Name = in.Name
	crop.Variety = in.Variety
	crop.GrowthStage = in.GrowthStage
	copied := *crop
	return &copied, nil
}

func (m *mockCropRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.crops[id]; !ok {
		return domain.ErrCropNotFound
	}
	delete(m.crops, id)
	return nil
}

type mockOperationRepo struct {
	ops map[int64]*domain.Operation
}

func newMockOperationRepo() *mockOperationRepo {
	return &mockOperationRepo{ops: make(map[int64]*domain.Operation)}
}

func (m *mockOperationRepo) Create(_ context.Context, in domain.OperationInput) (*domain.Operation, error) {
	op := &domain.Operation{
		ID:            int64(len(m.ops) + 1),
		FieldID:       in.FieldID,
		CropID:        in.CropID,
		OperationType: in.OperationType,
		Description:   in.Description,
		Operator:      in.Operator,
	}
	m.ops[op.ID] = op
	copied := *op
	return &copied, nil
}

func (m *mockOperationRepo) Get(_ context.Context, id int64) (*domain.Operation, error) {
	op, ok := m.ops[id]
	if !ok {
		return nil, domain.ErrOperationNotFound
	}
	copied := *op
	return &copied, nil
}

func (m *mockOperationRepo) List(context.Context) ([]domain.Operation, error) {
	list := make([]domain.Operation, 0, len(m.ops))
	for _, op := range m.ops {
		list = append(list, *op)
	}
	return list, nil
}

func (m *mockOperationRepo) Update(_ context.Context, id int64, in domain.OperationInput) (*domain.Operation, error) {
	op, ok := m.ops[id]
	if !ok {
		return nil, domain.ErrOperationNotFound
	}
	op.FieldID = in.FieldID
	op.CropID = in.CropID
	op.OperationType = in.OperationType
	op.Description = in.Description
	op.Operator = in.Operator
	copied := *op
	return &copied, nil
}

func (m *mockOperationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.ops[id]; !ok {
		return domain.ErrOperationNotFound
	}
	delete(m.ops, id)
	return nil
}

type serverOption func(*testDeps)

type testDeps struct {
	readings     *mockReadingRepo
	devices      *mockDeviceRepo
	alarms       *mockAlarmRepo
	audit        *mockAuditRepo
	fields       *mockFieldRepo
	crops        *mockCropRepo
	operations   *mockOperationRepo
	registry     *realtime.Registry
	healthChecks []HealthCheck
	maxSockets   int
	ratePerSec   float64
	rateBurst    int
}

func withHealthChecks(checks ...HealthCheck) serverOption {
	return func(d *testDeps) { d.healthChecks = checks }
}

func withMaxSocketClients(n int) serverOption {
	return func(d *testDeps) { d.maxSockets = n }
}

func withRateLimit(perSecond float64, burst int) serverOption {
	return func(d *testDeps) {
		d.ratePerSec = perSecond
		d.rateBurst = burst
	}
}

func newTestServer(t *testing.T, opts ...serverOption) (*Server, *testDeps) {
	t.Helper()

	clock := clockwork.NewRealClock()
	deps := &testDeps{
		readings:   &mockReadingRepo{},
		devices:    newMockDeviceRepo(),
		alarms:     &mockAlarmRepo{},
		audit:      &mockAuditRepo{},
		fields:     newMockFieldRepo(),
		crops:      newMockCropRepo(),
		operations: newMockOperationRepo(),
		registry:   realtime.NewRegistry(clock),
	}
	for _, opt := range opts {
		opt(deps)
	}
	t.Cleanup(deps.registry.Close)

	broadcaster := realtime.NewBroadcaster(deps.registry, clock)
	svc := ingest.NewService(deps.readings, deps.devices, deps.alarms, deps.audit, broadcaster)

	cfg := &config.Config{
		AppEnv:             "test",
		Port:               "0",
		LogLevel:           "error",
		LogFormat:          "text",
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
		MaxSocketClients:   64,
	}
	if deps.maxSockets > 0 {
		cfg.MaxSocketClients = deps.maxSockets
	}
	if deps.rateBurst > 0 {
		cfg.RateLimitPerSecond = deps.ratePerSec
		cfg.RateLimitBurst = deps.rateBurst
	}

	srv := NewServer(cfg, svc, Repositories{
		Readings:   deps.readings,
		Devices:    deps.devices,
		Alarms:     deps.alarms,
		Fields:     deps.fields,
		Crops:      deps.crops,
		Operations: deps.operations,
	}, deps.registry, deps.healthChecks)

	return srv, deps
}
