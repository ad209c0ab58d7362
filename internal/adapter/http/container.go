package http

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"todosvc/internal/adapter/auth"
	"todosvc/internal/adapter/database/postgres"
	pgrepo "todosvc/internal/adapter/database/postgres/repository"
	"todosvc/internal/adapter/database/sqlite"
	sqliterepo "todosvc/internal/adapter/database/sqlite/repository"
	"todosvc/internal/adapter/http/handler"
	"todosvc/internal/core/port"
	"todosvc/internal/core/service"
	"todosvc/pkg/config"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService
	TodoHandler *handler.TodoHandler
	Verifier    port.TokenVerifier

	closers []func() error
}

// NewContainer opens the record store (postgres when DATABASE_URL is set,
// sqlite otherwise), runs migrations and wires repositories, services and
// handlers together.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *otelzap.Logger) (*Container, error) {
	c := &Container{}

	var todoRepo port.TodoRepository

	if cfg.DatabaseURL != "" {
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, func() error {
			db.Close()
			return nil
		})

		todoRepo = pgrepo.NewTodoRepository(db)
	} else {
		db, err := sqlite.NewDB(cfg.DatabasePath)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, db.Close)

		todoRepo = sqliterepo.NewTodoRepository(db)
	}

	todoService := service.NewTodoService(todoRepo)

	c.TodoRepo = todoRepo
	c.TodoService = todoService
	c.TodoHandler = handler.NewTodoHandler(todoService, logger)
	c.Verifier = auth.NewHTTPVerifier(cfg.AuthServiceURL, cfg.AuthTimeout)

	return c, nil
}

func (c *Container) Close() error {
	var firstErr error

	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
