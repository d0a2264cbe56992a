package handlers

import (
	"net/http"

	"catalog/internal/domain/models"
	"catalog/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/register
func (h Handler) Register(c *gin.Context) {
	var in models.CreateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.auth(c).Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /api/auth/login
func (h Handler) Login(c *gin.Context) {
	var in services.LoginInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.auth(c).Login(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
