package rest

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFiles embed.FS

// staticHandler serves the embedded web UI for GET and HEAD requests that
// match no API route.
func staticHandler() gin.HandlerFunc {
	root, _ := fs.Sub(staticFiles, "static")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, messageResponse{Message: "Not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(c.Request.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		data, err := fs.ReadFile(root, name)
		if err != nil {
			c.JSON(http.StatusNotFound, messageResponse{Message: "Not found"})
			return
		}

		ctype := mime.TypeByExtension(path.Ext(name))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		c.Data(http.StatusOK, ctype, data)
	}
}
