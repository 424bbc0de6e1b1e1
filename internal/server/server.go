package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/cloud-ru/pension-calculator-go/internal/config"
	"github.com/cloud-ru/pension-calculator-go/internal/handlers"
	"github.com/cloud-ru/pension-calculator-go/internal/metrics"
)

// Маршруты
const (
	RouteIndex       = "/"
	RouteCalculate   = "/calculate"
	RouteReset       = "/reset"
	RouteProjections = "/api/v1/projections"
	RouteDefaults    = "/api/v1/defaults"
	RouteMetrics     = "/metrics"
	RouteHealth      = "/healthz"
)

// NewRouter собирает обработчик всех маршрутов и считает запросы
func NewRouter(d *handlers.Deps) fasthttp.RequestHandler {
	routes := map[string]fasthttp.RequestHandler{
		RouteIndex:       handlers.IndexHandler(d),
		RouteCalculate:   handlers.CalculateHandler(d),
		RouteReset:       handlers.ResetHandler(d),
		RouteProjections: handlers.ProjectionAPIHandler(d),
		RouteDefaults:    handlers.DefaultsAPIHandler(d),
		RouteMetrics:     fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
		RouteHealth:      handlers.HealthHandler,
	}

	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		handler, ok := routes[path]
		if !ok {
			path = "unmatched"
			ctx.Error("not found", fasthttp.StatusNotFound)
		} else {
			handler(ctx)
		}

		metrics.HTTPRequests.WithLabelValues(path, strconv.Itoa(ctx.Response.StatusCode())).Inc()
	}
}

// Server HTTP-сервер калькулятора
type Server struct {
	srv             *fasthttp.Server
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New создает сервер по конфигурации
func New(cfg *config.Config, d *handlers.Deps) *Server {
	return &Server{
		srv: &fasthttp.Server{
			Handler:      NewRouter(d),
			Name:         "pension-calculator",
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		addr:            cfg.Addr(),
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          d.Logger,
	}
}

// Run слушает адрес из конфигурации до отмены контекста
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает запросы на ln. После отмены ctx сервер перестает принимать
// соединения и ждет завершения текущих запросов не дольше shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("pension calculator listening", "addr", ln.Addr().String())
		serverErr <- s.srv.Serve(ln)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serverErr; err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	s.logger.Info("server exited")
	return nil
}
