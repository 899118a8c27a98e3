// Package simulator feeds demo telemetry through the real ingestion
// pipeline so the dashboard has live data without physical devices.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/liaolj/iot-board/internal/domain"
)

var simulatedDevices = []struct {
	id   string
	name string
}{
	{"sim-sensor-1", "Greenhouse Sensor 1"},
	{"sim-sensor-2", "Greenhouse Sensor 2"},
	{"sim-pump-1", "Irrigation Pump 1"},
	{"sim-valve-1", "Irrigation Valve 1"},
}

var simulatedStatuses = []string{"online", "online", "online", "offline", "maintenance"}

// Ingestor is the slice of the ingestion pipeline the simulator drives.
type Ingestor interface {
	IngestEnvironment(ctx context.Context, in domain.EnvironmentReadingInput) (*domain.EnvironmentReading, error)
	IngestDeviceStatus(ctx context.Context, in domain.DeviceStatusInput) (*domain.DeviceStatus, error)
	IngestAlarm(ctx context.Context, in domain.AlarmEventInput) (*domain.AlarmEvent, error)
}

type Simulator struct {
	ingestor Ingestor
	clock    clockwork.Clock
	interval time.Duration
	rng      *rand.Rand

	cancel context.CancelFunc
	done   chan struct{}
}

func New(ingestor Ingestor, clock clockwork.Clock, interval time.Duration) *Simulator {
	return &Simulator{
		ingestor: ingestor,
		clock:    clock,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the tick loop. Call Stop to join it.
func (s *Simulator) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)
	slog.Info("simulation mode enabled", "interval", s.interval)
}

// Stop cancels the loop and waits for the current tick to finish.
func (s *Simulator) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Simulator) run(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

func (s *Simulator) tick(ctx context.Context) {
	temperature := 18 + s.rng.Float64()*12
	humidity := 40 + s.rng.Float64()*35
	aqi := 20 + s.rng.Float64()*60

	if _, err := s.ingestor.IngestEnvironment(ctx, domain.EnvironmentReadingInput{
		Location:        "greenhouse-1",
		Temperature:     &temperature,
		Humidity:        &humidity,
		AirQualityIndex: &aqi,
	}); err != nil {
		slog.Warn("simulated environment reading rejected", "error", err)
	}

	device := simulatedDevices[s.rng.Intn(len(simulatedDevices))]
	status := simulatedStatuses[s.rng.Intn(len(simulatedStatuses))]

	if _, err := s.ingestor.IngestDeviceStatus(ctx, domain.DeviceStatusInput{
		DeviceID: device.id,
		Name:     device.name,
		Status:   status,
		Meta:     map[string]any{"simulated": true},
	}); err != nil {
		slog.Warn("simulated device status rejected", "error", err)
	}

	if status == "offline" {
		deviceID := device.id
		if _, err := s.ingestor.IngestAlarm(ctx, domain.AlarmEventInput{
			Code:     "DEVICE_OFFLINE",
			Message:  fmt.Sprintf("%s went offline", device.name),
			Severity: "warning",
			DeviceID: &deviceID,
		}); err != nil {
			slog.Warn("simulated alarm rejected", "error", err)
		}
	}
}
