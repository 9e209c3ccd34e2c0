// Package web is the gin server for the filedrop API and UI.
package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/filedrop/internal/web/files/controller"
	"github.com/Laisky/filedrop/internal/web/frontend"
	"github.com/Laisky/filedrop/library/log"
)

// NewServer builds the gin engine with middleware and routes.
func NewServer(ctrl *controller.Type) *gin.Engine {
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	server := gin.New()
	server.Use(
		gin.Recovery(),
		requestIDMiddleware,
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(log.Logger.Level().String()),
			gmw.WithLogger(log.Logger.Named("gin")),
		),
		allowCORS,
	)

	server.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})

	server.POST("/upload-authorizations", ctrl.AuthorizeUpload)
	server.GET("/upload-authorizations", ctrl.ListUploaded)

	// the embedded browser UI serves everything else
	server.NoRoute(gin.WrapH(frontend.Handler()))

	return server
}

// RunServer serves until ctx is canceled, then drains in-flight requests.
func RunServer(ctx context.Context, addr string) error {
	server := NewServer(controller.Instance)

	if err := gmw.EnableMetric(server); err != nil {
		log.Logger.Panic("enable metric server", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Logger.Info("listening on http", zap.String("addr", addr))

	var pool errgroup.Group
	pool.Go(func() error {
		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}

		return nil
	})
	pool.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown http server")
	})

	return pool.Wait()
}

// allowCORS permits cross-origin calls from hosts configured in
// settings.server.allowed_origins (exact host or any subdomain of it).
func allowCORS(ctx *gin.Context) {
	origin := ctx.Request.Header.Get("Origin")
	allowedOrigin := ""

	if origin != "" {
		parsedOriginURL, err := url.Parse(origin)
		if err == nil {
			host := strings.ToLower(parsedOriginURL.Hostname())
			for _, allowed := range gconfig.Shared.GetStringSlice("settings.server.allowed_origins") {
				allowed = strings.ToLower(allowed)
				if host == allowed || strings.HasSuffix(host, "."+allowed) {
					allowedOrigin = origin
					break
				}
			}
		}
	}

	if allowedOrigin != "" {
		ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS, HEAD")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Requested-With")
		ctx.Header("Access-Control-Max-Age", "86400")
		ctx.Header("Vary", "Origin")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
	} else if origin != "" && ctx.Request.Method == http.MethodOptions {
		// preflight from a disallowed origin
		ctx.AbortWithStatus(http.StatusForbidden)
		return
	}

	ctx.Next()
}
