package models

import "time"

type TaskCategory string

const (
	TaskCategoryWork     TaskCategory = "WORK"
	TaskCategoryStudy    TaskCategory = "STUDY"
	TaskCategoryPersonal TaskCategory = "PERSONAL"
	TaskCategoryOther    TaskCategory = "OTHER"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

type Task struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Title     string       `json:"title"`
	Date      time.Time    `json:"date"`
	Time      *string      `json:"time"`
	Category  TaskCategory `json:"category"`
	Priority  TaskPriority `json:"priority"`
	Completed bool         `json:"completed"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NormalizeCategory maps unknown or empty input to TaskCategoryOther.
// Invalid values are accepted silently rather than rejected.
func NormalizeCategory(raw string) TaskCategory {
	switch TaskCategory(raw) {
	case TaskCategoryWork, TaskCategoryStudy, TaskCategoryPersonal, TaskCategoryOther:
		return TaskCategory(raw)
	default:
		return TaskCategoryOther
	}
}

// NormalizePriority maps unknown or empty input to TaskPriorityMedium.
func NormalizePriority(raw string) TaskPriority {
	switch TaskPriority(raw) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(raw)
	default:
		return TaskPriorityMedium
	}
}
