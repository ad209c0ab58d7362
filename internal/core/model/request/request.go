package request

type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=255"`
	Completed   bool   `json:"completed"`
}
