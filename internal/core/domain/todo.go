package domain

import (
	"time"
)

type Todo struct {
	ID          int64
	Title       string `validate:"required,min=1,max=255"`
	Description string `validate:"max=255"`
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}
