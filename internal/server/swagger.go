package server

import (
	"net/http"

	"gymdesk/docs"
	"gymdesk/internal/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupSwagger serves the API docs outside production. The host is left
// empty so "Try it out" targets whatever host served the page.
func SetupSwagger(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction() {
		return
	}

	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.BasePath = "/"

	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.DocExpansion("none"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
}
