package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-featuregate/internal/commands"
	"github.com/goliatone/go-featuregate/internal/database"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

var ErrDatabaseRequired = errors.New("tasks: database provider required")

// Service exposes the task list backed by the gated database.
type Service interface {
	// Enabled reports whether tasks are read from and written to the database.
	Enabled() bool
	List(ctx context.Context) (List, error)
	// Get returns one task, from the demo list when the database is off.
	Get(ctx context.Context, id uuid.UUID) (*Task, error)
	Add(ctx context.Context, cmd AddTaskCommand) error
	Toggle(ctx context.Context, cmd ToggleTaskCommand) error
}

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithNow overrides the time source.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how new task identifiers are produced.
func WithIDGenerator(next func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if next != nil {
			s.nextID = next
		}
	}
}

// WithCommandLogger sets the logger the add and toggle handlers report through.
func WithCommandLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.commandLogger = logger
		}
	}
}

type service struct {
	db            *database.Provider
	logger        interfaces.Logger
	commandLogger interfaces.Logger
	now    func() time.Time
	nextID func() uuid.UUID

	add    *commands.Handler[AddTaskCommand]
	toggle *commands.Handler[ToggleTaskCommand]

	repoOnce sync.Once
	repo     *BunTaskRepository
}

// NewService wires the task commands to db.
func NewService(db *database.Provider, logger interfaces.Logger, opts ...ServiceOption) (Service, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	s := &service{
		db:     db,
		logger: commands.EnsureLogger(logger),
		now:    func() time.Time { return time.Now().UTC() },
		nextID: uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.commandLogger == nil {
		s.commandLogger = s.logger
	}
	s.add = database.Mutation(db, "tasks.add", s.insert,
		commands.WithLogger[AddTaskCommand](s.commandLogger))
	s.toggle = database.Mutation(db, "tasks.toggle", s.flip,
		commands.WithLogger[ToggleTaskCommand](s.commandLogger))
	return s, nil
}

var _ command.Commander[AddTaskCommand] = (*commands.Handler[AddTaskCommand])(nil)

func (s *service) Enabled() bool {
	return s.db.Enabled()
}

// List returns stored tasks, or the demo tasks when the database is off.
func (s *service) List(ctx context.Context) (List, error) {
	result, err := database.Query(ctx, s.db, func(ctx context.Context, db *bun.DB) ([]*Task, error) {
		return s.repository(db).List(ctx)
	})
	if err != nil {
		return List{}, err
	}
	if !result.Enabled {
		s.logger.Debug("tasks.list.mock")
		return List{Tasks: MockTasks(), Source: SourceMock}, nil
	}
	return List{Tasks: result.Data, Source: SourceDatabase}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	result, err := database.Query(ctx, s.db, func(ctx context.Context, db *bun.DB) (*Task, error) {
		return s.repository(db).GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if result.Enabled {
		return result.Data, nil
	}
	for _, task := range MockTasks() {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Add validates cmd before the gate check, so blank text is an error even
// in demo mode.
func (s *service) Add(ctx context.Context, cmd AddTaskCommand) error {
	if err := command.ValidateMessage(cmd); err != nil {
		return commands.WrapValidationError(err)
	}
	if !s.Enabled() {
		logging.WithFields(s.logger, map[string]any{"text": strings.TrimSpace(cmd.Text)}).
			Info("tasks.demo.add")
	}
	return s.add.Execute(ctx, cmd)
}

func (s *service) Toggle(ctx context.Context, cmd ToggleTaskCommand) error {
	if err := command.ValidateMessage(cmd); err != nil {
		return commands.WrapValidationError(err)
	}
	if !s.Enabled() {
		logging.WithFields(s.logger, map[string]any{"task_id": cmd.ID.String()}).
			Info("tasks.demo.toggle")
	}
	return s.toggle.Execute(ctx, cmd)
}

func (s *service) insert(ctx context.Context, tx bun.IDB, cmd AddTaskCommand) error {
	now := s.now()
	return insertTask(ctx, tx, &Task{
		ID:        s.nextID(),
		Text:      strings.TrimSpace(cmd.Text),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *service) flip(ctx context.Context, tx bun.IDB, cmd ToggleTaskCommand) error {
	return toggleTask(ctx, tx, cmd.ID, s.now())
}

func (s *service) repository(db *bun.DB) *BunTaskRepository {
	s.repoOnce.Do(func() {
		s.repo = NewBunTaskRepository(db)
	})
	return s.repo
}

// EnsureSchema creates the tasks table when the database is enabled.
func EnsureSchema(ctx context.Context, db *database.Provider) error {
	ctx = commands.EnsureContext(ctx)
	handle, ok := db.Resolve(ctx).Get()
	if !ok {
		return nil
	}
	_, err := handle.DB.NewCreateTable().Model((*Task)(nil)).IfNotExists().Exec(ctx)
	return err
}
