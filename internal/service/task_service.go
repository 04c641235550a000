package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"kyrix/api/internal/ids"
	"kyrix/api/internal/models"
)

// TaskStore is the slice of the task repository the task service needs.
// Mutations are keyed by task id and user id together; implementations
// report a foreign or unknown task as repository.ErrTaskNotFound.
type TaskStore interface {
	Create(ctx context.Context, task models.Task) (models.Task, error)
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)
	SetCompleted(ctx context.Context, userID, taskID string, completed bool) (models.Task, error)
	Update(ctx context.Context, userID, taskID, title string, date time.Time, taskTime *string) (models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

type TaskService struct {
	tasks TaskStore
	users UserStore
	log   zerolog.Logger
}

func NewTaskService(tasks TaskStore, users UserStore, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, log: log}
}

type CreateTaskInput struct {
	UserID   string
	Title    string
	Date     time.Time
	Time     *string
	Category string
	Priority string
}

// Create stores a new task. Category and priority outside their enums fall
// back to defaults instead of failing; that leniency is deliberate.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (models.Task, error) {
	// The claims in a still-valid token can outlive the user row.
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:       ids.New(),
		UserID:   input.UserID,
		Title:    input.Title,
		Date:     input.Date,
		Time:     input.Time,
		Category: models.NormalizeCategory(input.Category),
		Priority: models.NormalizePriority(input.Priority),
	}

	return s.tasks.Create(ctx, task)
}

func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID string, completed bool) (models.Task, error) {
	return s.tasks.SetCompleted(ctx, userID, taskID, completed)
}

func (s *TaskService) Update(ctx context.Context, userID, taskID, title string, date time.Time, taskTime *string) (models.Task, error) {
	return s.tasks.Update(ctx, userID, taskID, title, date, taskTime)
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	return s.tasks.Delete(ctx, userID, taskID)
}
