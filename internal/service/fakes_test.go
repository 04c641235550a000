package service

import (
	"context"
	"sort"
	"time"

	"kyrix/api/internal/models"
	"kyrix/api/internal/repository"
)

// In-memory stores backing the service tests. They honor the same
// contracts as the pgx repositories, including the ownership scoping and
// sentinel errors.

type memUserStore struct {
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type memTaskStore struct {
	tasks map[string]models.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[string]models.Task)}
}

func (s *memTaskStore) Create(_ context.Context, task models.Task) (models.Task, error) {
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	s.tasks[task.ID] = task
	return task, nil
}

func (s *memTaskStore) ListByUser(_ context.Context, userID string) ([]models.Task, error) {
	out := make([]models.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *memTaskStore) ListIncompleteByUser(_ context.Context, userID string) ([]models.Task, error) {
	out := make([]models.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == userID && !task.Completed {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *memTaskStore) SetCompleted(_ context.Context, userID, taskID string, completed bool) (models.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return models.Task{}, repository.ErrTaskNotFound
	}
	task.Completed = completed
	task.UpdatedAt = time.Now()
	s.tasks[taskID] = task
	return task, nil
}

func (s *memTaskStore) Update(_ context.Context, userID, taskID, title string, date time.Time, taskTime *string) (models.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return models.Task{}, repository.ErrTaskNotFound
	}
	task.Title = title
	task.Date = date
	task.Time = taskTime
	task.UpdatedAt = time.Now()
	s.tasks[taskID] = task
	return task, nil
}

func (s *memTaskStore) Delete(_ context.Context, userID, taskID string) error {
	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

type memDeviceStore struct {
	devices map[string]models.Device
}

func newMemDeviceStore() *memDeviceStore {
	return &memDeviceStore{devices: make(map[string]models.Device)}
}

func (s *memDeviceStore) Create(_ context.Context, device models.Device) (models.Device, error) {
	for _, existing := range s.devices {
		if existing.DeviceCode == device.DeviceCode {
			return models.Device{}, repository.ErrDeviceCodeConflict
		}
	}
	device.CreatedAt = time.Now()
	s.devices[device.ID] = device
	return device, nil
}

func (s *memDeviceStore) FindByCode(_ context.Context, code string) (models.Device, error) {
	for _, device := range s.devices {
		if device.DeviceCode == code {
			return device, nil
		}
	}
	return models.Device{}, repository.ErrDeviceNotFound
}

func (s *memDeviceStore) FindLatestByUser(_ context.Context, userID string) (models.Device, error) {
	var latest models.Device
	found := false
	for _, device := range s.devices {
		if device.UserID != userID {
			continue
		}
		if !found || device.CreatedAt.After(latest.CreatedAt) {
			latest = device
			found = true
		}
	}
	if !found {
		return models.Device{}, repository.ErrDeviceNotFound
	}
	return latest, nil
}

func (s *memDeviceStore) TouchLastSync(_ context.Context, id string, at time.Time) error {
	device, ok := s.devices[id]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	device.LastSync = &at
	s.devices[id] = device
	return nil
}
