package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC      *usecase.WarehouseUseCase
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Query            *inventory.QueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Adjustments      *inventory.AdjustmentUseCase
	Transfers        *inventory.TransferUseCase
	Approvals        *inventory.ApprovalUseCase
	Slips            *inventory.SlipService
	MetricsHandler   nethttp.Handler // nil deshabilita /metrics
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(RoleAdmin, RoleSupervisor)
	anyRole := RequireRole(RoleAdmin, RoleSupervisor, RoleBodeguero)

	// Catálogo
	warehouses := protected.Group("/warehouses", anyRole)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", managers, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", managers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/uoms", managers, productHandler.AddUOM)

	// Ledger
	invGroup := protected.Group("/inventory", anyRole)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Query, deps.Replenishment)
	invGroup.Post("/receipts", inventoryHandler.Receive)
	invGroup.Post("/issues", inventoryHandler.Issue)
	invGroup.Get("/stock", inventoryHandler.GetInventory)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/batches", inventoryHandler.ListBatches)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStock)

	// Ajustes (mass-post antes de /:id)
	adjustments := invGroup.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.Adjustments, deps.Slips)
	adjustments.Post("/mass-post", managers, adjustmentHandler.MassPost)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Put("/:id", adjustmentHandler.Update)
	adjustments.Post("/:id/post", adjustmentHandler.Post)
	adjustments.Post("/:id/copy", adjustmentHandler.Copy)
	adjustments.Post("/:id/reverse", managers, adjustmentHandler.Reverse)
	adjustments.Get("/:id/slip", adjustmentHandler.Slip)

	// Traslados
	transfers := invGroup.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Transfers, deps.Slips)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id", transferHandler.Update)
	transfers.Post("/:id/post", transferHandler.Post)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Get("/:id/slip", transferHandler.Slip)

	// Aprobaciones
	approvals := protected.Group("/approvals", managers)
	approvalHandler := NewApprovalHandler(deps.Approvals)
	approvals.Get("/", approvalHandler.List)
	approvals.Get("/:id", approvalHandler.GetByID)
	approvals.Post("/:id/approve", approvalHandler.Approve)
	approvals.Post("/:id/reject", approvalHandler.Reject)
}
