// Package grpcserver runs a gRPC server exposing the standard health
// service, used by load balancers and orchestration probes.
package grpcserver

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server wraps the gRPC listener and its health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	port   string
}

// New builds a server listening on the given port.
func New(port string) *Server {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return &Server{grpc: srv, health: hs, port: port}
}

// Serve blocks serving gRPC until Stop is called.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("grpcserver: listen :%s: %w", s.port, err)
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return s.grpc.Serve(lis)
}

// SetNotServing flips the health status, e.g. during shutdown draining.
func (s *Server) SetNotServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.SetNotServing()
	s.grpc.GracefulStop()
}
