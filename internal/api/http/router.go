package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/api/http/handlers"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/auth"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/observability"
)

// RouterDependencies bundles everything the HTTP surface needs.
type RouterDependencies struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics

	AuthMiddleware *auth.AuthMiddleware

	Health        *handlers.HealthHandler
	Users         *handlers.UsersHandler
	Tickets       *handlers.TicketsHandler
	Notifications *handlers.NotificationsHandler
	Catalog       *handlers.CatalogHandler
	Reports       *handlers.ReportsHandler
	Reconcile     *handlers.ReconcileHandler
}

// RegisterRoutes wires all endpoints onto the fiber app.
func RegisterRoutes(app *fiber.App, deps RouterDependencies) {
	app.Use(recover.New())
	app.Use(observability.RequestLogger(deps.Logger, deps.Metrics))

	app.Get("/health/live", deps.Health.Live)
	app.Get("/health/ready", deps.Health.Ready)

	app.Post("/auth/register", deps.Users.Register)
	app.Post("/auth/login", deps.Users.Login)

	// The reconciliation endpoint keeps the scheduled-function contract: no
	// auth, permissive CORS, explicit pre-flight handling.
	app.Options("/internal/reconcile-expired", deps.Reconcile.Preflight)
	app.Post("/internal/reconcile-expired", deps.Reconcile.Run)

	api := app.Group("/api", deps.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("/", deps.Tickets.CreateTicket)
	tickets.Get("/", deps.Tickets.ListTickets)
	tickets.Get("/:id", deps.Tickets.GetTicket)
	tickets.Patch("/:id", deps.Tickets.UpdateTicket)
	tickets.Delete("/:id", deps.Tickets.DeleteTicket)
	tickets.Put("/:id/notes", deps.Tickets.UpdateNotes)
	tickets.Post("/:id/planner", deps.Tickets.MoveToPlanner)
	tickets.Post("/:id/responses", deps.Tickets.AddResponse)
	tickets.Post("/:id/links", deps.Tickets.AddLink)
	tickets.Delete("/:id/links/:linkId", deps.Tickets.RemoveLink)

	notifications := api.Group("/notifications")
	notifications.Get("/", deps.Notifications.ListUnread)
	notifications.Get("/count", deps.Notifications.UnreadCount)
	notifications.Post("/read-all", deps.Notifications.MarkAllRead)
	notifications.Post("/:id/read", deps.Notifications.MarkRead)

	api.Get("/estruturantes", deps.Catalog.ListEstruturantes)
	api.Post("/estruturantes", deps.Catalog.CreateEstruturante)
	api.Delete("/estruturantes/:id", deps.Catalog.DeleteEstruturante)
	api.Get("/status-options", deps.Catalog.ListStatusOptions)
	api.Post("/status-options", deps.Catalog.CreateStatusOption)
	api.Delete("/status-options/:id", deps.Catalog.DeleteStatusOption)

	api.Get("/reports/summary", deps.Reports.Summary)
}
