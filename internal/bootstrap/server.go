package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/busbooking/api"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Registrar mounts one group of endpoints under /api.
type Registrar interface {
	Register(router *gin.RouterGroup)
}

type RouterConfig struct {
	AllowedOrigins []string
	CookieName     string
	Sessions       session.Store
	Logger         *slog.Logger
	// Ready is polled by /health; nil means always ready.
	Ready func(ctx context.Context) error
}

// NewRouter builds the gin engine with the shared middleware chain, the
// health and docs endpoints and every handler under /api.
func NewRouter(cfg RouterConfig, handlers ...Registrar) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.Logger(cfg.Logger), cors.New(corsConfig(cfg.AllowedOrigins)))
	if cfg.Sessions != nil {
		r.Use(api.Sessions(cfg.Sessions, cfg.CookieName))
	}

	r.GET("/health", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.RegisterDocs(r)

	group := r.Group("/api")
	for _, h := range handlers {
		h.Register(group)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// Run serves handler on addr and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[bootstrap] http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
		slog.Info("[bootstrap] shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
