package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	CategoryUC   *usecase.CategoryUseCase
	ItemUC       *usecase.ItemUseCase
	AdjustmentUC *inventory.SubmitAdjustmentUseCase
	HistoryUC    *inventory.HistoryUseCase
	Kardex       *pdf.KardexGenerator
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (registro inicial público; lectura protegida)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", RequireRole("admin", "bodeguero"), categoryHandler.Delete)

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Post("/bulk-delete", RequireRole("admin", "bodeguero"), itemHandler.BulkDelete)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", RequireRole("admin", "bodeguero"), itemHandler.Delete)
	items.Get("/:id/metrics", itemHandler.Metrics)
	items.Put("/:id/reorder-point", itemHandler.UpdateReorderPoint)

	// Ajustes de stock (protegido)
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	items.Post("/:id/adjustments", adjustmentHandler.Submit)
	protected.Post("/inventory/adjustments/recalculate", adjustmentHandler.Recalculate)

	// Historial y exportaciones (protegido)
	historyHandler := NewHistoryHandler(deps.HistoryUC, deps.Kardex)
	items.Get("/:id/transactions", historyHandler.List)
	items.Get("/:id/transactions/export", historyHandler.Export)
}
