package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kyrix/api/internal/ids"
	"kyrix/api/internal/models"
	"kyrix/api/internal/repository"
)

const (
	dayFormat       = "2006-01-02"
	defaultSyncTime = "00:00"
	weekWindowDays  = 7
)

// DeviceStore is the slice of the device repository the service needs.
type DeviceStore interface {
	Create(ctx context.Context, device models.Device) (models.Device, error)
	FindByCode(ctx context.Context, code string) (models.Device, error)
	FindLatestByUser(ctx context.Context, userID string) (models.Device, error)
	TouchLastSync(ctx context.Context, id string, at time.Time) error
}

// IncompleteTaskLister feeds the sync projection.
type IncompleteTaskLister interface {
	ListIncompleteByUser(ctx context.Context, userID string) ([]models.Task, error)
}

// DeviceLookupCache fronts FindByCode on the polling path. Optional; a nil
// cache means every poll hits the store.
type DeviceLookupCache interface {
	Get(ctx context.Context, code string) (models.Device, bool)
	Set(ctx context.Context, device models.Device)
	Invalidate(ctx context.Context, code string)
}

type DeviceService struct {
	devices DeviceStore
	tasks   IncompleteTaskLister
	cache   DeviceLookupCache
	log     zerolog.Logger
	now     func() time.Time
}

func NewDeviceService(devices DeviceStore, tasks IncompleteTaskLister, cache DeviceLookupCache, log zerolog.Logger) *DeviceService {
	return &DeviceService{
		devices: devices,
		tasks:   tasks,
		cache:   cache,
		log:     log,
		now:     time.Now,
	}
}

// Pair registers a device code for a user. Codes are globally unique
// across all users; the existence check here is advisory and the database
// constraint settles races. Pairing never replaces an existing device, so
// a user can accumulate several.
func (s *DeviceService) Pair(ctx context.Context, userID, deviceCode string) (models.Device, error) {
	if _, err := s.devices.FindByCode(ctx, deviceCode); err == nil {
		return models.Device{}, repository.ErrDeviceCodeConflict
	} else if !errors.Is(err, repository.ErrDeviceNotFound) {
		return models.Device{}, err
	}

	device, err := s.devices.Create(ctx, models.Device{
		ID:         ids.New(),
		DeviceCode: deviceCode,
		UserID:     userID,
		Mode:       models.DeviceModeToday,
	})
	if err != nil {
		return models.Device{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, deviceCode)
	}

	s.log.Info().Str("device_id", device.ID).Str("user_id", userID).Msg("device paired")
	return device, nil
}

// CurrentDevice returns the user's most recently paired device.
func (s *DeviceService) CurrentDevice(ctx context.Context, userID string) (models.Device, error) {
	return s.devices.FindLatestByUser(ctx, userID)
}

// SyncTask is the reduced projection served to the display.
type SyncTask struct {
	Date  string `json:"date,omitempty"`
	Time  string `json:"time"`
	Title string `json:"title"`
}

type SyncResult struct {
	Mode  string     `json:"mode"`
	Tasks []SyncTask `json:"tasks"`
}

// Sync serves a device poll. The code is the caller's entire credential.
// The device's last-sync timestamp is touched on every call, whether or
// not any tasks fall inside the window.
func (s *DeviceService) Sync(ctx context.Context, deviceCode string) (SyncResult, error) {
	device, err := s.lookupDevice(ctx, deviceCode)
	if err != nil {
		return SyncResult{}, err
	}

	tasks, err := s.tasks.ListIncompleteByUser(ctx, device.UserID)
	if err != nil {
		return SyncResult{}, err
	}

	now := s.now()
	var projected []SyncTask
	if device.Mode == models.DeviceModeWeek {
		projected = projectWeek(tasks, now)
	} else {
		projected = projectToday(tasks, now)
	}

	if err := s.devices.TouchLastSync(ctx, device.ID, now); err != nil {
		return SyncResult{}, err
	}

	return SyncResult{
		Mode:  strings.ToLower(string(device.Mode)),
		Tasks: projected,
	}, nil
}

func (s *DeviceService) lookupDevice(ctx context.Context, code string) (models.Device, error) {
	if s.cache != nil {
		if device, ok := s.cache.Get(ctx, code); ok {
			return device, nil
		}
	}

	device, err := s.devices.FindByCode(ctx, code)
	if err != nil {
		return models.Device{}, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, device)
	}
	return device, nil
}

func projectToday(tasks []models.Task, now time.Time) []SyncTask {
	today := now.Format(dayFormat)

	out := make([]SyncTask, 0)
	for _, task := range tasks {
		if task.Date.Format(dayFormat) != today {
			continue
		}
		out = append(out, SyncTask{
			Time:  timeOrDefault(task.Time),
			Title: task.Title,
		})
	}

	// "HH:MM" strings order correctly under plain comparison.
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func projectWeek(tasks []models.Task, now time.Time) []SyncTask {
	// Calendar-day bounds, inclusive: a task dated today belongs to the
	// window even when the poll happens in the afternoon.
	start := now.Format(dayFormat)
	end := now.AddDate(0, 0, weekWindowDays).Format(dayFormat)

	out := make([]SyncTask, 0)
	for _, task := range tasks {
		day := task.Date.Format(dayFormat)
		if day < start || day > end {
			continue
		}
		out = append(out, SyncTask{
			Date:  day,
			Time:  timeOrDefault(task.Time),
			Title: task.Title,
		})
	}
	return out
}

func timeOrDefault(t *string) string {
	if t == nil || *t == "" {
		return defaultSyncTime
	}
	return *t
}
