package graph

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
)

type ginContextKey struct{}

// WithGinContext stashes the gin context on a request context so resolvers
// can reach the session.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey{}, c)
}

// GinContext extracts the gin context placed by WithGinContext.
func GinContext(ctx context.Context) (*gin.Context, error) {
	c, ok := ctx.Value(ginContextKey{}).(*gin.Context)
	if !ok {
		return nil, errors.New("gin context missing from request context")
	}
	return c, nil
}
