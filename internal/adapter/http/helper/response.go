package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todosvc/internal/core/model/response"
)

// SendDetail writes the detail-shaped error body and stops the chain.
func SendDetail(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, response.ErrorResponse{Detail: detail})
}

func SendValidationError(c *gin.Context, errors []response.ValidationError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, response.ErrorResponse{
		Detail: "validation failed",
		Errors: errors,
	})
}

func SendInternalError(c *gin.Context) {
	// Unexpected store errors surface as a bare 500; nothing internal leaks.
	SendDetail(c, http.StatusInternalServerError, "internal server error")
}
