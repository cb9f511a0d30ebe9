// Package rest exposes the inventory over HTTP with gin. Every request passes
// through the auth gate; routes matching the configured public patterns are
// served without a token.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP handlers delegate to.
type Deps struct {
	Users        Authenticator
	Items        Inventory
	Transactions Ledger
	Archive      Archiver
	DB           Pinger
	Verifier     auth.TokenVerifier
	Policy       *auth.RoutePolicy
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	engine          *gin.Engine
	now             func() time.Time
}

func NewServer(address string, shutdownTimeout time.Duration, l logging.Logger, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "rest_server"),
		engine:          gin.New(),
		now:             time.Now,
	}

	registerValidators()

	s.engine.Use(RequestID(), Recovery(s.logger), RequestLogger(s.logger))
	s.engine.Use(AuthGate(deps.Policy, deps.Verifier, s.logger, func() time.Time { return s.now() }))

	h := &handlers{deps: deps, logger: s.logger}
	h.routes(s.engine)
	s.engine.NoRoute(staticHandler())

	return s
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
