package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todosvc/internal/adapter/database/postgres"
	"todosvc/internal/core/domain"
	"todosvc/internal/core/port"
)

type TodoRepository struct {
	db *postgres.DB
}

func NewTodoRepository(db *postgres.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(todo.Title, todo.Description, todo.Completed, todo.CreatedAt, todo.UpdatedAt).
		Suffix("RETURNING id, title, description, completed, created_at, updated_at").
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	var saved domain.Todo

	row := tr.db.QueryRow(ctx, query, args...)
	err = row.Scan(&saved.ID, &saved.Title, &saved.Description, &saved.Completed, &saved.CreatedAt, &saved.UpdatedAt)

	if err != nil {
		return domain.Todo{}, err
	}

	return saved, nil
}

func (tr *TodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.
		Select("id", "title", "description", "completed", "created_at", "updated_at").
		From("todos").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, query, args...)

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

	row := tr.db.QueryRow(ctx, query, args...)
	err = row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}
