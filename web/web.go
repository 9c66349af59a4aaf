// Package web provides the HTTP server: routing, session middleware and
// background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/noyan-alimov/lireddit-server/config"
	"github.com/noyan-alimov/lireddit-server/logger"
	"github.com/noyan-alimov/lireddit-server/util/common"
	"github.com/noyan-alimov/lireddit-server/util/random"
	"github.com/noyan-alimov/lireddit-server/web/cache"
	"github.com/noyan-alimov/lireddit-server/web/controller"
	"github.com/noyan-alimov/lireddit-server/web/email"
	"github.com/noyan-alimov/lireddit-server/web/graph"
	"github.com/noyan-alimov/lireddit-server/web/job"
	webSession "github.com/noyan-alimov/lireddit-server/web/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// sessionMaxAge keeps sessions alive for ten years, effectively "no expiry".
const sessionMaxAge = 60 * 60 * 24 * 365 * 10

// Server is the web server with its GraphQL controller and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	graphql *controller.GraphQLController

	mailer email.Mailer

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a web server with a cancellable context. A nil mailer
// defaults to the SMTP mailer from the environment configuration.
func NewServer(mailer email.Mailer) *Server {
	if mailer == nil {
		mailer = email.NewSMTPMailer()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel, mailer: mailer}
}

// initRouter initializes gin, registers middleware and the GraphQL routes.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetWebOrigin()},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	secret := config.GetSecret()
	if secret == "" {
		logger.Warning("LR_SECRET not set, generating a random session secret; sessions will not survive a restart")
		secret = random.Seq(32)
	}

	store := cache.NewRedisStore(cache.GetClient(), []byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   !config.IsDebug(),
		SameSite: http.SameSiteLaxMode,
	})
	engine.Use(sessions.Sessions(webSession.CookieName, store))

	g := engine.Group("/")
	graphqlController, err := controller.NewGraphQLController(g, graph.NewResolver(s.mailer))
	if err != nil {
		return nil, err
	}
	s.graphql = graphqlController

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

func (s *Server) startTask() {
	// Fold the sqlite WAL back into the main file once a day.
	s.cron.AddJob("@daily", job.NewCheckpointJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), config.GetPort())
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
