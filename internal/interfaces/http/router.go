package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pintureria-api/internal/application/analytics"
	"github.com/jhoicas/Pintureria-api/internal/application/auth"
	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/application/usecase"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC         *usecase.ProductUseCase
	CreateTransaction *inventory.CreateTransactionUseCase
	TransactionQuery  *inventory.TransactionQueryUseCase
	StockQuery        *inventory.StockQueryUseCase
	KardexPDF         inventory.KardexPDFGenerator
	DashboardUC       *analytics.DashboardUseCase
	AuthUC            *auth.AuthUseCase
	JWTSecret         string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)

	// Transactions (protegido)
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.CreateTransaction, deps.TransactionQuery)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)

	// Stock (protegido): niveles, kardex, ajuste e integridad
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockQuery, deps.KardexPDF)
	stock.Get("/levels", stockHandler.Levels)
	stock.Get("/:id/kardex", stockHandler.Kardex)
	stock.Get("/:id/kardex/pdf", stockHandler.KardexPDF)
	stock.Get("/:id/kardex/csv", stockHandler.KardexCSV)
	stock.Post("/:id/adjustment", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.AdjustmentSuggestion)
	stock.Get("/:id/integrity", stockHandler.Integrity)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}
