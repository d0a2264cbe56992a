package handlers

import (
	"net/http"

	"catalog/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (h Handler) PageCategories(c *gin.Context) {
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	page, err := h.categories(c).Page(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h Handler) GetCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.categories(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/categories/:id/products
func (h Handler) PageCategoryProducts(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	page, err := h.products(c).PageByCategory(c.Request.Context(), id, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/categories/:id/products/count
func (h Handler) CountCategoryProducts(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	n, err := h.categories(c).CountProducts(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoryId": id, "productCount": n})
}

func (h Handler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.categories(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h Handler) UpdateCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var in models.CategoryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.categories(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handler) DeleteCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.categories(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
