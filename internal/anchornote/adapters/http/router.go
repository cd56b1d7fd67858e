// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"anchornote/internal/anchornote/adapters/http/anchoring"
	"anchornote/internal/anchornote/adapters/http/middleware"
	"anchornote/internal/anchornote/adapters/http/notes"
	"anchornote/internal/anchornote/app"
	"anchornote/internal/anchornote/ports/ledger"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(
	fiberApp *fiber.App,
	noteUseCase *app.NoteUseCase,
	verificationUseCase *app.VerificationUseCase,
	gateway ledger.Gateway,
) {
	notesHandler := notes.NewHandler(noteUseCase)
	anchoringHandler := anchoring.NewHandler(noteUseCase, verificationUseCase, gateway)

	// Middleware для всех запросов.
	fiberApp.Use(middleware.NewRequestIDMiddleware())
	fiberApp.Use(middleware.NewLoggerMiddleware())
	fiberApp.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := fiberApp.Group("/api/v1")

	// Маршруты заметок.
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Get("/:note_id", notesHandler.GetNote)
	notesRoutes.Patch("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Put("/:note_id", notesHandler.UpdateNote)
	notesRoutes.Delete("/:note_id", notesHandler.DeleteNote)

	// Маршруты якорения и проверки целостности.
	notesRoutes.Post("/:note_id/anchor", anchoringHandler.AnchorNote)
	notesRoutes.Get("/:note_id/verify", anchoringHandler.VerifyNote)

	// Состояние узла реестра.
	apiV1.Get("/ledger/status", anchoringHandler.LedgerStatus)

	// Обработчик для несуществующих маршрутов.
	fiberApp.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
