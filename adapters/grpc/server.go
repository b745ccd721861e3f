package grpc

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/andarie1/task-manager/core"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "tasks"

// Server serves grpc.health.v1.Health backed by database reachability.
type Server struct {
	log    *slog.Logger
	pinger core.Pinger
	health *health.Server
	grpc   *grpc.Server
}

func NewServer(log *slog.Logger, pinger core.Pinger) *Server {
	s := &Server{
		log:    log,
		pinger: pinger,
		health: health.NewServer(),
		grpc:   grpc.NewServer(),
	}

	// до первой проверки считаем сервис недоступным
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	return s
}

// Probe pings the database and publishes the result. It returns the ping error.
func (s *Server) Probe(ctx context.Context) error {
	if err := s.pinger.Ping(ctx); err != nil {
		s.log.Error("health probe failed", "error", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

func (s *Server) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop marks every service NOT_SERVING and waits for in-flight calls.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
