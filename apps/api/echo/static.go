package echoapi

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fmsedu/curriculum/core"
)

const spaFallback = "login.html"

// registerStatic serves uploads & the front end; unknown non-API paths get the login page.
func registerStatic(app *echo.Echo, conf *core.Config) {
	app.Static("/uploads", conf.Server.UploadDir)
	app.GET("/*", frontendHandler(conf.Server.FrontendDir))
}

func frontendHandler(dir string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		path := ctx.Request().URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			return errHttpNotFound
		}
		return ctx.File(frontendFile(dir, path))
	}
}

// frontendFile resolves path inside dir, falling back to the login page.
func frontendFile(dir, path string) string {
	name := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil || info.IsDir() {
		return filepath.Join(dir, spaFallback)
	}
	return name
}
