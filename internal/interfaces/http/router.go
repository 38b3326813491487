package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
)

// RoleAdmin puede eliminar materiales.
const RoleAdmin = "admin"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry    *inventory.Registry
	ImageUpload *inventory.ImageUploadUseCase
	Reports     *report.Extractor
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Materiales
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.Registry)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/integrity", materialHandler.Integrity)
	materials.Delete("/:id", RequireRole(RoleAdmin), materialHandler.Delete)
	materials.Post("/:id/movements", materialHandler.RecordMovement)

	// Imágenes
	uploads := protected.Group("/uploads")
	uploadHandler := NewUploadHandler(deps.ImageUpload)
	uploads.Post("/images", uploadHandler.UploadImage)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/stock", reportHandler.Stock)
	reports.Get("/history/:code", reportHandler.History)
}
