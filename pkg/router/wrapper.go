package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"

	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	// Snapshot the chains at registration time so later Before or AddCloser
	// calls on the same branch do not leak into already registered routes.
	befores := slices.Clone(r.befores)
	closers := slices.Clone(r.closers)

	return func(gctx *gin.Context) {
		ctx := xcontext.WithConfigs(gctx.Request.Context(), r.cfg)
		ctx = xcontext.WithLogger(ctx, r.log)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPRequest(ctx, gctx.Request)

		resp, err := func() (*Response, error) {
			for _, before := range befores {
				next, err := before(ctx)
				if err != nil {
					return nil, err
				}

				ctx = next
			}

			var req Request
			var bindErr error
			switch method {
			case http.MethodGet:
				bindErr = gctx.ShouldBindQuery(&req)
			default:
				bindErr = gctx.ShouldBindJSON(&req)
			}
			if bindErr != nil {
				return nil, errorx.New(errorx.BadRequest, "Cannot bind the request")
			}

			return handler(ctx, &req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			gctx.JSON(http.StatusOK, newErrorResponse(err))
		} else {
			gctx.JSON(http.StatusOK, newResponse(resp))
		}

		for _, closer := range closers {
			closer(ctx)
		}
	}
}
