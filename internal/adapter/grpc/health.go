package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer exposes grpc.health.v1 for orchestrators.
// Status is reported both for the empty service name and for serviceName.
type HealthServer struct {
	server      *grpc.Server
	health      *health.Server
	serviceName string
	logger      *logger.Logger
}

func NewHealthServer(serviceName string, appLogger *logger.Logger) *HealthServer {
	log := appLogger.Named("GRPCHealth")
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log)),
	)
	reflection.Register(server)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	s := &HealthServer{server: server, health: healthServer, serviceName: serviceName, logger: log}
	s.SetServing(false)
	return s
}

// SetServing flips the reported status between SERVING and NOT_SERVING.
func (s *HealthServer) SetServing(serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(s.serviceName, st)
}

// Serve blocks until the server stops. It returns nil after Stop.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info("gRPC health server listening", zap.String("address", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Watch runs check every interval until ctx is done and reports SERVING only
// while it succeeds.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration, check func(ctx context.Context) error) {
	checkOnce := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := check(checkCtx); err != nil {
			s.logger.Warn("Dependency check failed, reporting NOT_SERVING", zap.Error(err))
			s.SetServing(false)
			return
		}
		s.SetServing(true)
	}

	checkOnce()
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkOnce()
			}
		}
	}()
}

// Stop reports NOT_SERVING and drains in-flight calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.logger.Info("gRPC health status set to NOT_SERVING")
	s.server.GracefulStop()
}
