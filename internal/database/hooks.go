package database

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-featuregate/internal/commands"
	"github.com/goliatone/go-featuregate/internal/logging"
)

const (
	mutationDisabledMsg = "database mutation called but database is disabled"
	actionDisabledMsg   = "database action called but database is disabled"
)

// QueryResult is the outcome of a gated read. A disabled database yields
// the zero Data with Enabled false.
type QueryResult[T any] struct {
	Data    T
	Enabled bool
}

// QueryFunc reads through db.
type QueryFunc[T any] func(ctx context.Context, db *bun.DB) (T, error)

// Query runs fn only when the database binding is enabled.
func Query[T any](ctx context.Context, p *Provider, fn QueryFunc[T]) (QueryResult[T], error) {
	handle, ok := p.Resolve(commands.EnsureContext(ctx)).Get()
	if !ok {
		return QueryResult[T]{}, nil
	}
	data, err := fn(ctx, handle.DB)
	if err != nil {
		return QueryResult[T]{Enabled: true}, err
	}
	return QueryResult[T]{Data: data, Enabled: true}, nil
}

// MutationFunc writes through tx.
type MutationFunc[T command.Message] func(ctx context.Context, tx bun.IDB, msg T) error

// ActionFunc runs against the database outside a transaction.
type ActionFunc[T command.Message] func(ctx context.Context, db *bun.DB, msg T) error

// Mutation returns a command handler that runs fn inside a transaction.
// When the database is disabled the handler warns and returns nil.
func Mutation[T command.Message](p *Provider, operation string, fn MutationFunc[T], opts ...commands.HandlerOption[T]) *commands.Handler[T] {
	exec := func(ctx context.Context, msg T) error {
		handle, ok := p.Binding().Get()
		if !ok {
			return nil
		}
		return handle.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, tx, msg)
		})
	}
	return commands.NewHandler[T](exec, handlerOptions(p, operation, mutationDisabledMsg, opts)...)
}

// Action returns a command handler that runs fn without a transaction.
func Action[T command.Message](p *Provider, operation string, fn ActionFunc[T], opts ...commands.HandlerOption[T]) *commands.Handler[T] {
	exec := func(ctx context.Context, msg T) error {
		handle, ok := p.Binding().Get()
		if !ok {
			return nil
		}
		return fn(ctx, handle.DB, msg)
	}
	return commands.NewHandler[T](exec, handlerOptions(p, operation, actionDisabledMsg, opts)...)
}

func handlerOptions[T command.Message](p *Provider, operation, disabledMsg string, extra []commands.HandlerOption[T]) []commands.HandlerOption[T] {
	guard := func() (bool, string) {
		b := p.Binding()
		return b.IsEnabled(), b.Reason()
	}
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logging.WithFields(p.logger, map[string]any{"component": "command"})),
		commands.WithOperation[T](operation),
		commands.WithGuard[T](guard, disabledMsg),
	}
	return append(opts, extra...)
}
