package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter configura el router principal
func NewRouter(apiHandler *API, devCORS bool) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()

	// Middleware global
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if devCORS {
		router.Use(DevCORSMiddleware())
	}

	router.GET("/health", apiHandler.Health)

	v1 := router.Group("/api/v1")
	{
		// Endpoints públicos, limitados por IP
		auth := v1.Group("/auth")
		auth.Use(apiHandler.RateLimitMiddleware())
		{
			auth.POST("/signup", apiHandler.Signup)
			auth.POST("/login", apiHandler.Login)
		}

		// Endpoints autenticados, limitados por usuario
		private := v1.Group("")
		private.Use(apiHandler.AuthMiddleware(), apiHandler.RateLimitMiddleware())
		{
			private.GET("/auth/test_token", apiHandler.TestToken)

			// Customers
			private.POST("/customers", apiHandler.CreateCustomer)
			private.GET("/customers", apiHandler.GetMyCustomer)
			private.GET("/customers/me", apiHandler.GetMyCustomer)
			private.GET("/customers/me/id", apiHandler.GetMyCustomerID)
			private.GET("/customers/:id", apiHandler.GetCustomer)
			private.PATCH("/customers/edit", apiHandler.UpdateMyCustomer)
			private.PATCH("/customers/:id/update_customer", apiHandler.UpdateCustomerByID)

			// Cards
			private.POST("/cards", apiHandler.CreateCard)
			private.GET("/cards", apiHandler.ListCards)
			private.GET("/cards/:id", apiHandler.GetCard)
			private.PATCH("/cards/:id", apiHandler.UpdateCard)
			private.DELETE("/cards/:id", apiHandler.DeleteCard)

			// Subscriptions
			private.POST("/subscriptions", apiHandler.CreateSubscription)
			private.GET("/subscriptions", apiHandler.ListSubscriptions)
			private.GET("/subscriptions/local", apiHandler.ListLocalSubscriptions)
			private.GET("/subscriptions/:id", apiHandler.GetSubscription)
			private.DELETE("/subscriptions/:id", apiHandler.CancelSubscription)

			// Plans
			private.GET("/plans", apiHandler.ListPlans)

			// Empresas
			private.GET("/empresas", apiHandler.ListEmpresas)
			private.POST("/empresas", apiHandler.CreateEmpresa)
			private.GET("/empresas/:id", apiHandler.GetEmpresa)
			private.PATCH("/empresas/:id", apiHandler.UpdateEmpresa)
			private.DELETE("/empresas/:id", apiHandler.DeleteEmpresa)
			private.GET("/empresas/:id/estadisticas", apiHandler.GetEmpresaEstadisticas)

			// Carros
			private.GET("/carros", apiHandler.ListCarros)
			private.POST("/carros", apiHandler.CreateCarro)
			private.GET("/carros/:id", apiHandler.GetCarro)
			private.PATCH("/carros/:id", apiHandler.UpdateCarro)
			private.DELETE("/carros/:id", apiHandler.DeleteCarro)
			private.PUT("/carros/:id/foto", apiHandler.UploadCarroFoto)

			// Reclamos
			private.GET("/reclamos", apiHandler.ListReclamos)
			private.POST("/reclamos", apiHandler.CreateReclamo)
			private.GET("/reclamos/:id", apiHandler.GetReclamo)
			private.PATCH("/reclamos/:id", apiHandler.UpdateReclamo)
			private.DELETE("/reclamos/:id", apiHandler.DeleteReclamo)

			// Endpoints ADMIN (is_staff)
			admin := private.Group("/admin")
			admin.Use(apiHandler.AdminMiddleware())
			{
				admin.GET("/users", apiHandler.AdminListUsers)
				admin.GET("/reclamos", apiHandler.AdminListReclamos)
				admin.PATCH("/reclamos/:id/responder", apiHandler.AdminResponderReclamo)
			}
		}
	}

	return router, nil
}
