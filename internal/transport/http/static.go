package http

import (
	"embed"
	"io/fs"
	gohttp "net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web
var webFS embed.FS

// staticHandler serves the embedded single-page client.
func staticHandler() gin.HandlerFunc {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic("embedded web assets: " + err.Error())
	}
	fileServer := gohttp.FileServer(gohttp.FS(sub))
	return func(c *gin.Context) {
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
