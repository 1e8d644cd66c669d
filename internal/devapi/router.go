package devapi

import (
	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/middleware"
	"bookstore-admin/pkg/jwt"
)

// NewRouter wires the stub API. Everything except /health and /auth sits
// behind bearer auth, mutations additionally behind the admin role, exactly
// like the production backend the console targets.
func NewRouter(store *Store, jwtManager *jwt.Manager) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	handler := NewHandler(store, jwtManager)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := v1.Group("/auth")
		{
			auth.POST("/login", handler.Login)
			auth.POST("/refresh", handler.Refresh)
		}

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(jwtManager))
		admin := authed.Group("")
		admin.Use(middleware.AdminMiddleware())

		authed.GET("/books", handler.ListBooks)
		authed.GET("/books/:id", handler.GetBook)
		admin.POST("/books", handler.CreateBook)
		admin.PUT("/books/:id", handler.UpdateBook)
		admin.DELETE("/books/:id", handler.DeleteBook)

		authed.GET("/orders", handler.ListOrders)
		authed.GET("/orders/:id", handler.GetOrder)
		admin.PUT("/orders/:id", handler.UpdateOrder)
		admin.DELETE("/orders/:id", handler.DeleteOrder)

		authed.GET("/users", handler.ListUsers)
		authed.GET("/users/:id", handler.GetUser)
		admin.POST("/users", handler.CreateUser)
		admin.PUT("/users/:id", handler.UpdateUser)
		admin.DELETE("/users/:id", handler.DeleteUser)

		authed.GET("/sections", handler.ListSections)
		authed.GET("/sections/:id", handler.GetSection)
		admin.POST("/sections", handler.CreateSection)
		admin.PUT("/sections/:id", handler.UpdateSection)
		admin.DELETE("/sections/:id", handler.DeleteSection)

		authed.GET("/packs", handler.ListPacks)
		authed.GET("/packs/:id", handler.GetPack)
		admin.POST("/packs", handler.CreatePack)
		admin.PUT("/packs/:id", handler.UpdatePack)
		admin.DELETE("/packs/:id", handler.DeletePack)
	}

	return router
}
