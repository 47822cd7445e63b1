package internal

import (
	"net/http"

	"feedboard/internal/controllers"
	"feedboard/internal/providers"
)

func InitRoutes(dashboard *controllers.DashboardController, ws *controllers.WsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/login", http.HandlerFunc(dashboard.Login))
	routers.Post("/api/logout", http.HandlerFunc(dashboard.Logout))
	routers.Get("/api/state", dashboard.RequireAuth(http.HandlerFunc(dashboard.State)))
	routers.Post("/api/config", dashboard.RequireAuth(http.HandlerFunc(dashboard.UpdateConfig)))
	routers.Get("/api/channels", dashboard.RequireAuth(http.HandlerFunc(dashboard.Channels)))
	routers.Get("/api/history", dashboard.RequireAuth(http.HandlerFunc(dashboard.History)))
	routers.Get("/ws", http.HandlerFunc(ws.Handle))
	routers.Any("/", http.HandlerFunc(dashboard.UI))
	return routers
}
