package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/application/catalog"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/application/notification"
	"github.com/tu-usuario/almacen-api/internal/application/report"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	CatalogUC      *catalog.UseCase
	LedgerUC       *ledger.UseCase
	NotificationUC *notification.UseCase
	AuditUC        *audit.UseCase
	ReportUC       *report.UseCase
	ReportPDFUC    *report.PDFUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/password-reset", authHandler.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/profile", authHandler.Profile)

	// Categorías (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CatalogUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Artículos (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.CatalogUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/damaged", itemHandler.DamagedOrExpired)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/correct", itemHandler.CorrectQuantity)

	// Movimientos (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Post("/in", movementHandler.Inbound)
	movements.Post("/out", movementHandler.Outbound)
	movements.Post("/adjustments", movementHandler.Adjustment)
	movements.Get("/", movementHandler.List)
	movements.Get("/balance/:item_id", movementHandler.CheckBalance)
	movements.Get("/:id", movementHandler.GetByID)

	// Notificaciones (protegido)
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread", notificationHandler.UnreadCount)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/", notificationHandler.DeleteAll)

	// Auditoría (protegido; listado completo y poda solo super_admin)
	auditGroup := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/me", auditHandler.Mine)
	auditGroup.Get("/", RequireRole(entity.RoleSuperAdmin), auditHandler.List)
	auditGroup.Delete("/", RequireRole(entity.RoleSuperAdmin), auditHandler.Prune)

	// Reportes y panel (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.ReportPDFUC, deps.CatalogUC)
	reports.Get("/stock", reportHandler.Stock)
	reports.Get("/stock/pdf", reportHandler.StockPDF)
	reports.Get("/inbound", reportHandler.Inbound)
	reports.Get("/outbound", reportHandler.Outbound)
	reports.Get("/shrinkage", reportHandler.Shrinkage)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/top-consumed", reportHandler.TopConsumed)
	protected.Get("/dashboard", reportHandler.Dashboard)
}
