package api

import (
	stdhttp "net/http"

	"catalog/internal/auth"
	intconfig "catalog/internal/config"
	"catalog/internal/domain"
	h "catalog/internal/http/handlers"
	"catalog/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Deps wires storage and token handling into the router.
type Deps struct {
	Handlers h.Handler
	Tokens   auth.TokenValidator
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	hd := deps.Handlers
	admin := middleware.RequireRoles(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/register", hd.Register)
		authGroup.POST("/login", hd.Login)

		secured := api.Group("", middleware.JWTAuth(deps.Tokens))
		secured.GET("/routes", admin, h.Routes)

		// Products
		products := secured.Group("/products")
		products.GET("", admin, hd.ListAllProducts)
		products.GET("/paginated", hd.PageProducts)
		products.GET("/search", hd.PageProducts)
		products.GET("/slice", hd.SliceProducts)
		products.GET("/export", hd.ExportProductsPDF)
		products.GET("/user/:userId", hd.PageProductsByOwner("userId"))
		products.GET("/user/:userId/all", hd.ListAllProductsByOwner)
		products.GET("/category/:categoryId", hd.SliceProductsByCategory)
		products.POST("/validate-name", hd.ValidateProductName)
		products.GET("/:id", hd.GetProduct)
		products.POST("", hd.CreateProduct)
		products.PUT("/:id", hd.UpdateProduct)
		products.PATCH("/:id", hd.PatchProduct)
		products.DELETE("/:id", hd.DeleteProduct)

		// Categories
		categories := secured.Group("/categories")
		categories.GET("", hd.PageCategories)
		categories.GET("/:id", hd.GetCategory)
		categories.GET("/:id/products", hd.PageCategoryProducts)
		categories.GET("/:id/products/count", hd.CountCategoryProducts)
		categories.POST("", admin, hd.CreateCategory)
		categories.PUT("/:id", admin, hd.UpdateCategory)
		categories.DELETE("/:id", admin, hd.DeleteCategory)

		// Users
		users := secured.Group("/users")
		users.GET("", admin, hd.PageUsers)
		users.GET("/:id", hd.GetUser)
		users.GET("/:id/products", hd.PageProductsByOwner("id"))
		users.POST("", admin, hd.CreateUser)
		users.PUT("/:id", hd.UpdateUser)
		users.PATCH("/:id", hd.PatchUser)
		users.DELETE("/:id", admin, hd.DeleteUser)
	}

	h.SetRouter(r)
	return r
}
