package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/contractdock/backend/config"
	"github.com/contractdock/backend/pkg/logger"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may derive a new context which
// the handler and every later middleware will see.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, with the handler error
// available through xcontext.Error.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine gin.IRouter

	cfg config.Configs
	log logger.Logger
	db  *gorm.DB

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, log logger.Logger) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine: engine,
		cfg:    cfg,
		log:    log,
		db:     db,
	}
}

// Branch derives a router sharing the same engine but with an independent
// middleware chain, so route groups can require different checks.
func (r *Router) Branch() *Router {
	return &Router{
		engine:  r.engine,
		cfg:     r.cfg,
		log:     r.log,
		db:      r.db,
		befores: slices.Clone(r.befores),
		closers: slices.Clone(r.closers),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	handler := http.Handler(r.engine.(*gin.Engine))
	if len(r.cfg.ApiServer.AllowCORS) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   r.cfg.ApiServer.AllowCORS,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	return handler
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
