// Package controller provides the HTTP handlers for the forum API.
package controller

import (
	"github.com/noyan-alimov/lireddit-server/config"
	"github.com/noyan-alimov/lireddit-server/web/graph"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/handler"
)

// GraphQLController mounts the GraphQL executor and playground.
type GraphQLController struct {
	handler *handler.Handler
}

// NewGraphQLController builds the schema once and registers the /graphql
// routes on the given group.
func NewGraphQLController(g *gin.RouterGroup, resolver *graph.Resolver) (*GraphQLController, error) {
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return nil, err
	}

	a := &GraphQLController{
		handler: handler.New(&handler.Config{
			Schema:     &schema,
			Pretty:     config.IsDebug(),
			Playground: true,
		}),
	}
	a.initRouter(g)
	return a, nil
}

func (a *GraphQLController) initRouter(g *gin.RouterGroup) {
	g.POST("/graphql", a.serve)
	g.GET("/graphql", a.serve)
}

// serve hands the request to the GraphQL executor with the gin context
// attached, so resolvers can reach the session.
func (a *GraphQLController) serve(c *gin.Context) {
	ctx := graph.WithGinContext(c.Request.Context(), c)
	a.handler.ContextHandler(ctx, c.Writer, c.Request)
}
