package handlers

import (
	"net/http"

	"catalog/internal/domain/models"
	"catalog/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GET /api/products (admin): every product, unpaged.
func (h Handler) ListAllProducts(c *gin.Context) {
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, err := h.products(c).ListAll(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/products/paginated and /api/products/search
func (h Handler) PageProducts(c *gin.Context) {
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	page, err := h.products(c).Page(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/products/slice
func (h Handler) SliceProducts(c *gin.Context) {
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	slice, err := h.products(c).Slice(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, slice)
}

// GET /api/products/user/:userId and /api/users/:id/products
func (h Handler) PageProductsByOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := pathID(c, param)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		p, err := ListingParams(c)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		page, err := h.products(c).PageByOwner(c.Request.Context(), ownerID, p)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /api/products/user/:userId/all: the owner's products, unpaged.
func (h Handler) ListAllProductsByOwner(c *gin.Context) {
	ownerID, err := pathID(c, "userId")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, err := h.products(c).ListAllByOwner(c.Request.Context(), ownerID, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/products/category/:categoryId
func (h Handler) SliceProductsByCategory(c *gin.Context) {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	slice, err := h.products(c).SliceByCategory(c.Request.Context(), categoryID, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, slice)
}

// GET /api/products/export renders the requested page as PDF.
func (h Handler) ExportProductsPDF(c *gin.Context) {
	p, err := ListingParams(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	data, filename, err := h.export(c).ProductsPDF(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h Handler) GetProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.products(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handler) CreateProduct(c *gin.Context) {
	var in models.CreateProductInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.products(c).Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h Handler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var in models.UpdateProductInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.products(c).Update(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handler) PatchProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var in models.PatchProductInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.products(c).Patch(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.products(c).Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type validateNameRequest struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// POST /api/products/validate-name
func (h Handler) ValidateProductName(c *gin.Context) {
	var req validateNameRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.products(c).ValidateName(c.Request.Context(), req.Name, req.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}
