package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bodegapro/movimientos-api/internal/application/catalog"
	"github.com/bodegapro/movimientos-api/internal/application/draft"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DraftUC   *draft.UseCase
	CatalogUC *catalog.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo (alimenta la selección de artículos)
	items := api.Group("/catalog/items")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id/presentations", catalogHandler.ListPresentations)

	// Borradores de movimiento
	drafts := api.Group("/movements/drafts")
	draftHandler := NewDraftHandler(deps.DraftUC)
	drafts.Post("/", draftHandler.Create)
	drafts.Get("/:id", draftHandler.Get)
	drafts.Put("/:id", draftHandler.Update)
	drafts.Delete("/:id", draftHandler.Discard)
	drafts.Post("/:id/lines", draftHandler.AddLine)
	drafts.Put("/:id/lines/:itemId", draftHandler.UpdateLine)
	drafts.Delete("/:id/lines/:itemId", draftHandler.RemoveLine)
	drafts.Post("/:id/lines/:itemId/refresh-stock", draftHandler.RefreshStock)
	drafts.Get("/:id/validation", draftHandler.Validate)
	drafts.Post("/:id/submit", draftHandler.Submit)
}
