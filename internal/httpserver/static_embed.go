package httpserver

import (
	"embed"
	"io/fs"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	fiberfs "github.com/gofiber/fiber/v2/middleware/filesystem"
)

// uiAssets contains the static single-page UI.
//
//go:embed ui
var uiAssets embed.FS

const uiRoot = "ui"

func mountEmbeddedUI(app *fiber.App) {
	dist, err := fs.Sub(uiAssets, uiRoot)
	if err != nil {
		log.Printf("ui assets not embedded: %v", err)
		return
	}

	app.Use("/", fiberfs.New(fiberfs.Config{
		Root:         http.FS(dist),
		Index:        "index.html",
		NotFoundFile: "index.html",
		Browse:       false,
	}))
}
