package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jorgeferrarice/resume-ai-api/internal/domain"
)

// APIResponse is the JSON envelope every endpoint returns.
type APIResponse struct {
	Success    bool          `json:"success"`
	Data       any           `json:"data,omitempty"`
	Error      string        `json:"error,omitempty"`
	Message    string        `json:"message,omitempty"`
	Usage      *domain.Usage `json:"usage,omitempty"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

type Pagination struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Count      int `json:"count"`
	TotalItems int `json:"totalItems"`
}

func RespondOK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

func RespondCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data, Message: message})
}

func RespondError(c *gin.Context, status int, errMsg string) {
	c.JSON(status, APIResponse{Success: false, Error: errMsg})
}
