package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(cors.Default())

	api := router.Group("/api")
	{
		api.GET("/overview", handler.GetMarketOverview)
		api.GET("/locations", handler.GetLocationStats)
		api.GET("/cashflow", handler.GetCashFlowListings)
		api.GET("/trends", handler.GetMarketTrends)
		api.GET("/top-investments", handler.GetTopInvestments)
		api.GET("/summary", handler.GetExecutiveSummary)
		api.GET("/properties", handler.GetAllProperties)
		api.POST("/properties/import", handler.ImportProperties)
	}
}
