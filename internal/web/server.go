package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server hosts the admin panel and the platform webhook endpoints.
type Server struct {
	handler *Handler
	server  *http.Server
	port    int
}

func NewServer(handler *Handler, port int) *Server {
	return &Server{handler: handler, port: port}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handler.MainPage)
	r.Post("/submit_essay", s.handler.SubmitEssay)
	r.Post("/push_all_essays", s.handler.PushAllEssays)
	r.Get("/wechat", s.handler.WeChatVerify)
	r.Post("/wechat", s.handler.WeChatMessage)
	r.Get("/api/status", s.handler.Status)
	r.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Infof("starting web server on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
