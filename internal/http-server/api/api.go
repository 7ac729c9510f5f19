package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"InstaCatalog/internal/config"
	"InstaCatalog/internal/http-server/handlers/catalog"
	errhandlers "InstaCatalog/internal/http-server/handlers/errors"
	"InstaCatalog/internal/http-server/handlers/service"
	"InstaCatalog/internal/http-server/handlers/whatsapp"
	"InstaCatalog/internal/http-server/middleware/authenticate"
	"InstaCatalog/internal/http-server/middleware/logger"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const requestTimeout = 30 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	catalog.Core
	service.Core
}

var endpoints = []string{
	"/webhook",
	"/catalog/{username}",
	"/status/{username}",
	"/health",
	"/debug",
	"/ws",
	"/api/v1/catalog",
	"/api/v1/catalogs",
	"/api/v1/ws-ticket",
}

// New builds the router. The websocket route is mounted only when hub is not nil.
func New(conf *config.Config, log *slog.Logger, handler Handler, webhook whatsapp.Webhook, hub *ws.Hub) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}
	auth := authenticate.NewKeyAuth(conf.Listen.ApiKey)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)

	router.NotFound(errhandlers.NotFound(log))
	router.MethodNotAllowed(errhandlers.NotAllowed(log))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/", service.Home(log, endpoints))
		r.Get("/health", service.Health(log))
		r.Get("/debug", service.Debug(log, handler))
		r.Get("/status/{username}", catalog.Status(log, handler))
		r.Get("/catalog/{username}", catalog.Page(log, handler))

		if webhook != nil {
			r.Get("/webhook", whatsapp.WebhookVerify(log, webhook))
			r.Post("/webhook", whatsapp.WebhookHandler(log, webhook))
		}

		r.Route("/api/v1", func(v1 chi.Router) {
			v1.Use(authenticate.New(log, auth))
			v1.Post("/catalog", catalog.RequestCatalog(log, handler))
			v1.Get("/catalogs", catalog.List(log, handler))
			v1.Delete("/catalog/{username}", catalog.Delete(log, handler))
			v1.Post("/ws-ticket", service.WsTicket(log, auth))
		})
	})

	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, auth, log, w, r)
		})
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port),
		Handler:           router,
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return server
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run blocks until the server is shut down.
func (s *Server) Run() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Info("starting api server", slog.String("address", s.httpServer.Addr))

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
