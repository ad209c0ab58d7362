package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"todosvc/internal/adapter/database/sqlite"
	"todosvc/internal/core/domain"
	"todosvc/internal/core/port"
)

type TodoRepository struct {
	db *sqlite.DB
}

func NewTodoRepository(db *sqlite.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(todo.Title, todo.Description, todo.Completed, todo.CreatedAt, todo.UpdatedAt).
		ToSql()

	if err != nil {
		slog.Error("Query build failed", "error", err)
		return domain.Todo{}, err
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		slog.Error("Insert failed", "error", err, "title", todo.Title)
		return domain.Todo{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Todo{}, err
	}

	return tr.GetByID(ctx, id)
}

func (tr *TodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	// No ORDER BY: callers get whatever order the store yields.
	query, args, err := tr.db.QueryBuilder.
		Select("id", "title", "description", "completed", "created_at", "updated_at").
		From("todos").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos := make([]domain.Todo, 0)

	for rows.Next() {
		var todo domain.Todo

		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.
		Select("id", "title", "description", "completed", "created_at", "updated_at").
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	var todo domain.Todo

	row := tr.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}
