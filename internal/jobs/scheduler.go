package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"kyrix/api/internal/models"
)

const staleAfter = 7 * 24 * time.Hour

// StaleDeviceLister is the slice of the device repository the sweep needs.
type StaleDeviceLister interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]models.Device, error)
}

// Scheduler runs the daily stale-device sweep: paired displays that have
// stopped polling get logged so an operator notices. It never mutates data.
type Scheduler struct {
	cron    *cron.Cron
	devices StaleDeviceLister
	log     zerolog.Logger
}

func NewScheduler(devices StaleDeviceLister, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		devices: devices,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if s.devices == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 0 * * *", s.sweepStaleDevices); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits up to five seconds for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) sweepStaleDevices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	devices, err := s.devices.ListStale(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		s.log.Error().Err(err).Msg("stale device sweep failed")
		return
	}

	for _, device := range devices {
		event := s.log.Warn().
			Str("device_id", device.ID).
			Str("user_id", device.UserID)
		if device.LastSync != nil {
			event = event.Time("last_sync", *device.LastSync)
		}
		event.Msg("device has not synced recently")
	}
}
