package port

import (
	"context"

	"todosvc/internal/core/domain"
)

type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	GetAll(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
}

type TodoService interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	List(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
}
