package handlers

import (
	"net/http"

	"catalog/internal/domain/models"
	"catalog/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GET /api/users (admin)
func (h Handler) PageUsers(c *gin.Context) {
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	page, err := h.users(c).Page(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h Handler) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.users(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/users (admin)
func (h Handler) CreateUser(c *gin.Context) {
	var in models.CreateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.users(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h Handler) UpdateUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var in models.UpdateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.users(c).Update(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handler) PatchUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var in models.PatchUserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.users(c).Patch(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /api/users/:id (admin)
func (h Handler) DeleteUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.users(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
