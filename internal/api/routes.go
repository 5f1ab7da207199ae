package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitcrm/internal/service"
)

// SetupRoutes wires the HTTP surface to the core services. Single-tenant
// tool: there is no authentication layer, every route is open.
func SetupRoutes(
	router *gin.Engine,
	clientService service.ClientService,
	suggestionService service.SuggestionService,
	defaultSampleSize int,
) {
	clientHandler := NewClientHandler(clientService)
	suggestionHandler := NewSuggestionHandler(suggestionService, defaultSampleSize)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		clientGroup := apiV1.Group("/clients")
		{
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("/:id", clientHandler.GetClient)
			clientGroup.PUT("/:id", clientHandler.UpdateClient)
			clientGroup.DELETE("/:id", clientHandler.DeleteClient)
		}

		apiV1.GET("/suggestions", suggestionHandler.GetSuggestions)
	}
}
