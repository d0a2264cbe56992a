package handlers

import (
	"context"

	"catalog/internal/http/middleware"
	"catalog/internal/services"

	"github.com/gin-gonic/gin"
)

// CategoryRepo is the category storage the handlers need for both CRUD and lookups.
type CategoryRepo interface {
	services.CategoryStore
	services.CategoryLookup
}

// Handler holds the storage each request-scoped service is built on.
type Handler struct {
	Products   services.ProductStore
	Categories CategoryRepo
	Users      services.UserStore
	Tokens     services.TokenIssuer
	Ping       func(ctx context.Context) error
	Missing    func(ctx context.Context) []string
}

func (h Handler) products(c *gin.Context) services.ProductService {
	return services.ProductService{
		Products:   h.Products,
		Categories: h.Categories,
		Users:      h.Users,
		RequestID:  middleware.GetRequestID(c),
	}
}

func (h Handler) categories(c *gin.Context) services.CategoryService {
	return services.CategoryService{Categories: h.Categories, RequestID: middleware.GetRequestID(c)}
}

func (h Handler) users(c *gin.Context) services.UserService {
	return services.UserService{Users: h.Users, RequestID: middleware.GetRequestID(c)}
}

func (h Handler) auth(c *gin.Context) services.AuthService {
	return services.AuthService{Users: h.Users, Tokens: h.Tokens, RequestID: middleware.GetRequestID(c)}
}

func (h Handler) export(c *gin.Context) services.ExportService {
	return services.ExportService{Products: h.products(c), RequestID: middleware.GetRequestID(c)}
}
