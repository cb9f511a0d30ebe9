// Package grpc runs the gRPC endpoint of stockkeeper: the standard health
// service and server reflection, guarded by the same auth gate as the REST
// API.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-checked service name.
const ServiceName = "stockkeeper"

const probeInterval = 10 * time.Second

// Pinger checks database connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	policy   *auth.RoutePolicy
	verifier auth.TokenVerifier
	db       Pinger
	health   *health.Server
	now      func() time.Time
}

func NewGRPCServer(a string, l logging.Logger, policy *auth.RoutePolicy, verifier auth.TokenVerifier, db Pinger) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		policy:   policy,
		verifier: verifier,
		db:       db,
		health:   health.NewServer(),
		now:      time.Now,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.accessTokenStreamInterceptor),
	)

	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)

	s.probe(ctx)
	go func() {
		t := time.NewTicker(probeInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-t.C:
				s.probe(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	return srv.Serve(listen)
}

// probe publishes the database state as the health of ServiceName.
func (s *GRPCServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.db != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(pctx); err != nil {
			s.logger.Warn(ctx, "database ping failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(ServiceName, status)
}
