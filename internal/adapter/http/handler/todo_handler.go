package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	. "todosvc/internal/adapter/http/helper"
	. "todosvc/internal/adapter/http/validation"
	"todosvc/internal/core/domain"
	"todosvc/internal/core/model/request"
	"todosvc/internal/core/model/response"
	"todosvc/internal/core/port"
)

type TodoHandler struct {
	svc    port.TodoService
	logger *otelzap.Logger
}

func NewTodoHandler(svc port.TodoService, logger *otelzap.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Root answers the health route. It sits behind the same gate and limiter
// as everything else.
func (t *TodoHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.CreateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendValidationError(c, []response.ValidationError{
			{Field: "body", Message: "malformed payload"},
		})
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, FormatValidationErrors(err))
		return
	}

	todo, err := t.svc.Create(ctx, domain.Todo{
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
	})

	if err != nil {
		t.logger.Ctx(ctx).Error("Failed to create todo",
			zap.Error(err),
			zap.String("title", params.Title))

		SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) ListTodos(c *gin.Context) {
	ctx := c.Request.Context()

	todos, err := t.svc.List(ctx)

	if err != nil {
		t.logger.Ctx(ctx).Error("Failed to list todos", zap.Error(err))
		SendInternalError(c)
		return
	}

	data := make([]response.TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, response.NewTodoResponse(todo))
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)

	if err != nil {
		SendValidationError(c, []response.ValidationError{
			{Field: "id", Message: "must be an integer"},
		})
		return
	}

	todo, err := t.svc.GetByID(ctx, id)

	if errors.Is(err, domain.ErrTodoNotFound) {
		SendDetail(c, http.StatusNotFound, "todo not found")
		return
	}

	if err != nil {
		t.logger.Ctx(ctx).Error("Failed to get todo",
			zap.Error(err),
			zap.Int64("id", id))

		SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}
