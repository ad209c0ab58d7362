package service

import (
	"context"
	"log/slog"
	"time"

	"todosvc/internal/core/domain"
	"todosvc/internal/core/port"
)

type TodoService struct {
	repo port.TodoRepository
}

func NewTodoService(repo port.TodoRepository) *TodoService {
	return &TodoService{repo}
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	now := time.Now().UTC()

	newTodo := domain.Todo{
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	todo, err := ts.repo.Create(ctx, newTodo)

	if err != nil {
		slog.Error("Repository create failed", "error", err, "title", newTodo.Title)
		return domain.Todo{}, err
	}

	return todo, nil
}

// List returns every persisted record. No ordering is imposed beyond what
// the store yields.
func (ts *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	return ts.repo.GetAll(ctx)
}

func (ts *TodoService) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	todo, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}
