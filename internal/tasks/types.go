package tasks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Task is a to-do item stored by the database feature.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Text      string    `bun:"text,notnull" json:"text"`
	Completed bool      `bun:"completed,notnull,default:false" json:"completed"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Source tells where a task list came from.
type Source string

const (
	SourceDatabase Source = "database"
	SourceMock     Source = "mock"
)

// List is the result of listing tasks.
type List struct {
	Tasks  []*Task
	Source Source
}

// Fixed identifiers keep the demo data stable across runs.
var (
	mockTaskLearn = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	mockTaskSetup = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	mockTaskBuild = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// MockTasks returns the demo data shown while the database is disabled.
func MockTasks() []*Task {
	return []*Task{
		{ID: mockTaskLearn, Text: "Learn React Native"},
		{ID: mockTaskSetup, Text: "Set up Convex", Completed: true},
		{ID: mockTaskBuild, Text: "Build amazing app"},
	}
}
