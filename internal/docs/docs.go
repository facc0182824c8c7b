// Package docs serves the API schema at /api-docs. The OpenAPI document is
// maintained by hand and embedded at build time.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.json
var openapiJSON []byte

const viewerHTML = `<!doctype html>
<html>
<head>
  <title>Sistema de Ventas API</title>
  <meta charset="utf-8"/>
</head>
<body>
  <redoc spec-url="/api-docs/openapi.json"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

func Register(r *gin.Engine) {
	r.GET("/api-docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(viewerHTML))
	})
	r.GET("/api-docs/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openapiJSON)
	})
}
