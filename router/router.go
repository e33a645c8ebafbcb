package router

import (
	"database/sql"
	"net/http"

	"unitdesk/config"
	templateHandler "unitdesk/internal/template"
	"unitdesk/internal/template/service"
	"unitdesk/middleware"
	"unitdesk/socket"
)

func Setup(cfg *config.Config, db *sql.DB, hub *socket.Hub, svc *service.TemplateService) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(cfg.JWTSecret)

	// WebSocket
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(string)
		tenantID := r.Context().Value(middleware.TenantIDKey).(string)
		socket.ServeWs(hub, w, r, userID, tenantID)
	})
	mux.Handle("/ws", auth(wsHandler))

	// REST API
	h := templateHandler.NewTemplateHandler(svc)

	mux.Handle("/api/templates", auth(http.HandlerFunc(h.GetTemplates)))
	mux.Handle("/api/templates/create", auth(http.HandlerFunc(h.CreateTemplate)))
	mux.Handle("/api/templates/update", auth(http.HandlerFunc(h.UpdateTemplate)))
	mux.Handle("/api/templates/delete", auth(http.HandlerFunc(h.DeleteTemplate)))
	mux.Handle("/api/templates/default", auth(http.HandlerFunc(h.SetDefault)))
	mux.Handle("/api/templates/library", auth(http.HandlerFunc(h.GetLibrary)))
	mux.Handle("/api/templates/gallery", auth(http.HandlerFunc(h.GetGallery)))
	mux.Handle("/api/templates/validate", auth(http.HandlerFunc(h.ValidateTemplate)))
	mux.Handle("/api/templates/preview", auth(http.HandlerFunc(h.PreviewTemplate)))
	mux.Handle("/api/templates/print", auth(http.HandlerFunc(h.PrintTemplate)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	return middleware.CORS(cfg.CORSOrigins)(mux)
}
