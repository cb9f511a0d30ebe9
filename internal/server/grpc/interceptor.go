package grpc

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authorize runs the auth gate for fullMethod using the "authorization"
// metadata value and returns ctx carrying the resolved identity.
func (s *GRPCServer) authorize(ctx context.Context, fullMethod string) (context.Context, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	d := auth.Decide(fullMethod, header, s.policy, s.verifier, s.now())
	if !d.Admitted {
		s.logger.Warn(ctx, "call rejected", "method", fullMethod, "reason", d.Reason)
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	if d.Identity != "" {
		ctx = auth.WithIdentity(ctx, d.Identity)
	}
	return ctx, nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx, err := s.authorize(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type identityStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *identityStream) Context() context.Context { return w.ctx }

func (s *GRPCServer) accessTokenStreamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authorize(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &identityStream{ServerStream: ss, ctx: ctx})
}
