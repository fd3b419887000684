package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/handlers"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/middleware"
)

// Multipart parts above this size spill to temp files.
const multipartMemory = 8 << 20

type HTTPServer struct {
	router *gin.Engine
	server *http.Server
	log    zerolog.Logger
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, metrics *middleware.HTTPMetrics, handlerSet handlers.HandlerSet) *HTTPServer {
	router := newRouter(cfg, log, metrics)
	handlerSet.Register(&router.RouterGroup)

	return &HTTPServer{
		router: router,
		log:    log,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
	}
}

// newRouter wires the global chain. Errors sits innermost so that aborts
// from route-group middleware are still rendered.
func newRouter(cfg *config.AppConfig, log zerolog.Logger, metrics *middleware.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = multipartMemory

	chain := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
	}
	if metrics != nil {
		chain = append(chain, metrics.Middleware())
	}
	chain = append(chain, middleware.CORS(cfg.AllowCORSOrigins), middleware.Errors(log))
	router.Use(chain...)

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Not found"))
		c.Abort()
	})
	return router
}

func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("listen and serve: %w", err)
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server draining")
	return s.server.Shutdown(ctx)
}
