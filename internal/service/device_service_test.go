package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"kyrix/api/internal/models"
	"kyrix/api/internal/repository"
)

func newDeviceFixture(t *testing.T) (*DeviceService, *memDeviceStore, *memTaskStore) {
	t.Helper()
	devices := newMemDeviceStore()
	tasks := newMemTaskStore()
	svc := NewDeviceService(devices, tasks, nil, zerolog.Nop())
	return svc, devices, tasks
}

func seedDevice(t *testing.T, svc *DeviceService, userID, code string, mode models.DeviceMode) models.Device {
	t.Helper()
	device, err := svc.Pair(context.Background(), userID, code)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if mode != device.Mode {
		device.Mode = mode
		svc.devices.(*memDeviceStore).devices[device.ID] = device
	}
	return device
}

func seedTask(t *testing.T, tasks *memTaskStore, userID string, date time.Time, at *string, title string, completed bool) {
	t.Helper()
	_, err := tasks.Create(context.Background(), models.Task{
		ID:        title,
		UserID:    userID,
		Title:     title,
		Date:      date,
		Time:      at,
		Completed: completed,
	})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func strptr(s string) *string { return &s }

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func TestPair_ConflictOnDuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeviceFixture(t)

	if _, err := svc.Pair(ctx, "alice", "CODE-1"); err != nil {
		t.Fatalf("first pair: %v", err)
	}

	// The second attempt conflicts regardless of who asks.
	if _, err := svc.Pair(ctx, "bob", "CODE-1"); !errors.Is(err, repository.ErrDeviceCodeConflict) {
		t.Errorf("other user: err = %v, want conflict", err)
	}
	if _, err := svc.Pair(ctx, "alice", "CODE-1"); !errors.Is(err, repository.ErrDeviceCodeConflict) {
		t.Errorf("same user: err = %v, want conflict", err)
	}
}

func TestPair_DefaultsToTodayMode(t *testing.T) {
	svc, _, _ := newDeviceFixture(t)

	device, err := svc.Pair(context.Background(), "u1", "CODE-1")
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if device.Mode != models.DeviceModeToday {
		t.Errorf("mode = %q, want TODAY", device.Mode)
	}
	if device.LastSync != nil {
		t.Error("fresh device has a last-sync timestamp")
	}
}

func TestSync_UnknownDevice(t *testing.T) {
	svc, _, _ := newDeviceFixture(t)

	if _, err := svc.Sync(context.Background(), "NOPE"); !errors.Is(err, repository.ErrDeviceNotFound) {
		t.Errorf("err = %v, want ErrDeviceNotFound", err)
	}
}

func TestSync_TodayMode(t *testing.T) {
	svc, _, tasks := newDeviceFixture(t)
	seedDevice(t, svc, "u1", "CODE-1", models.DeviceModeToday)

	now := time.Now()
	today := day(now)
	tomorrow := today.AddDate(0, 0, 1)

	seedTask(t, tasks, "u1", today, strptr("09:00"), "standup", false)
	seedTask(t, tasks, "u1", today, strptr("07:30"), "run", false)
	seedTask(t, tasks, "u1", tomorrow, strptr("08:00"), "dentist", false)
	seedTask(t, tasks, "u1", today, strptr("10:00"), "done already", true)

	result, err := svc.Sync(context.Background(), "CODE-1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.Mode != "today" {
		t.Errorf("mode = %q, want today", result.Mode)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(result.Tasks), result.Tasks)
	}
	if result.Tasks[0].Time != "07:30" || result.Tasks[1].Time != "09:00" {
		t.Errorf("order = [%s %s], want [07:30 09:00]", result.Tasks[0].Time, result.Tasks[1].Time)
	}
	if result.Tasks[0].Date != "" {
		t.Errorf("today projection carries a date: %q", result.Tasks[0].Date)
	}
}

func TestSync_TodayMode_DefaultTime(t *testing.T) {
	svc, _, tasks := newDeviceFixture(t)
	seedDevice(t, svc, "u1", "CODE-1", models.DeviceModeToday)

	seedTask(t, tasks, "u1", day(time.Now()), nil, "untimed", false)

	result, err := svc.Sync(context.Background(), "CODE-1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Time != "00:00" {
		t.Errorf("tasks = %+v, want one with time 00:00", result.Tasks)
	}
}

func TestSync_WeekMode_InclusiveWindow(t *testing.T) {
	svc, _, tasks := newDeviceFixture(t)
	seedDevice(t, svc, "u1", "CODE-2", models.DeviceModeWeek)

	today := day(time.Now())
	seedTask(t, tasks, "u1", today, strptr("09:00"), "now", false)
	seedTask(t, tasks, "u1", today.AddDate(0, 0, 3), strptr("10:00"), "in three days", false)
	seedTask(t, tasks, "u1", today.AddDate(0, 0, 7), strptr("11:00"), "boundary", false)
	seedTask(t, tasks, "u1", today.AddDate(0, 0, 10), strptr("12:00"), "too far", false)
	seedTask(t, tasks, "u1", today.AddDate(0, 0, -1), strptr("13:00"), "yesterday", false)

	result, err := svc.Sync(context.Background(), "CODE-2")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.Mode != "week" {
		t.Errorf("mode = %q, want week", result.Mode)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("got %d tasks, want 3: %+v", len(result.Tasks), result.Tasks)
	}
	for _, task := range result.Tasks {
		if task.Date == "" {
			t.Errorf("week projection missing date: %+v", task)
		}
	}
}

func TestSync_TouchesLastSyncEvenWhenEmpty(t *testing.T) {
	svc, devices, _ := newDeviceFixture(t)
	device := seedDevice(t, svc, "u1", "CODE-1", models.DeviceModeToday)

	before := time.Now()
	result, err := svc.Sync(context.Background(), "CODE-1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(result.Tasks) != 0 {
		t.Fatalf("expected empty window, got %+v", result.Tasks)
	}

	stored := devices.devices[device.ID]
	if stored.LastSync == nil || stored.LastSync.Before(before) {
		t.Errorf("last sync not touched: %v", stored.LastSync)
	}
}

type recordingCache struct {
	entries     map[string]models.Device
	gets, sets  int
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]models.Device)}
}

func (c *recordingCache) Get(_ context.Context, code string) (models.Device, bool) {
	c.gets++
	device, ok := c.entries[code]
	return device, ok
}

func (c *recordingCache) Set(_ context.Context, device models.Device) {
	c.sets++
	c.entries[device.DeviceCode] = device
}

func (c *recordingCache) Invalidate(_ context.Context, code string) {
	c.invalidated = append(c.invalidated, code)
	delete(c.entries, code)
}

func TestSync_UsesLookupCache(t *testing.T) {
	devices := newMemDeviceStore()
	tasks := newMemTaskStore()
	cache := newRecordingCache()
	svc := NewDeviceService(devices, tasks, cache, zerolog.Nop())

	if _, err := svc.Pair(context.Background(), "u1", "CODE-1"); err != nil {
		t.Fatalf("pair: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("pairing invalidated %d entries, want 1", len(cache.invalidated))
	}

	if _, err := svc.Sync(context.Background(), "CODE-1"); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("sets = %d after miss, want 1", cache.sets)
	}

	if _, err := svc.Sync(context.Background(), "CODE-1"); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if cache.gets != 2 {
		t.Errorf("gets = %d, want 2", cache.gets)
	}
	if cache.sets != 1 {
		t.Errorf("sets = %d after hit, want still 1", cache.sets)
	}
}
