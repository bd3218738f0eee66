// Package router wires HTTP routes to handlers.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"asset_dashboard/internal/app/middleware"
	"asset_dashboard/internal/app/web"
	authhandler "asset_dashboard/internal/feature/auth/transport/handler"
	priceshandler "asset_dashboard/internal/feature/prices/transport/handler"
	jwtmw "asset_dashboard/internal/platform/jwt"
)

// New はアプリケーションの全ルートを登録したginエンジンを生成します。
// 運用エンドポイント（/api/admin以下）はJWT認証で保護されます。
func New(prices *priceshandler.PricesHandler, auth *authhandler.AuthHandler) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	r.GET("/", web.Dashboard)
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/signup", auth.Signup)
	r.POST("/login", auth.Login)

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/prices", prices.GetPrices)
		api.GET("/assets", prices.Assets)

		admin := api.Group("/admin", jwtmw.AuthRequired())
		{
			admin.POST("/refresh", prices.Refresh)
			admin.GET("/db-stats", prices.DBStats)
		}
	}
	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
