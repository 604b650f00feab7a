package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/example/agbado/pkg/marketplace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Server hosts OrderService and CatalogService on one listener.
type Server struct {
	srv    *grpc.Server
	logger *zap.Logger
}

func NewServer(svc *marketplace.Service, logger *zap.Logger) *Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	srv.RegisterService(&OrderServiceDesc, NewOrderServer(svc, logger))
	srv.RegisterService(&CatalogServiceDesc, NewCatalogServer(svc, logger))
	reflection.Register(srv)

	return &Server{srv: srv, logger: logger}
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("Order service started", zap.String("address", addr))

	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.srv.GracefulStop()
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		logger.Info("gRPC request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
