package grpc

import (
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes the standard gRPC health service. It reports
// NOT_SERVING until the gateway session is ready.
type HealthServer struct {
	addr     string
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
}

// NewHealthServer creates a health server for addr.
func NewHealthServer(addr string) *HealthServer {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	return &HealthServer{addr: addr, server: s, health: hs}
}

// Start listens on the configured address and serves in the background.
func (h *HealthServer) Start() error {
	lis, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.addr, err)
	}
	h.listener = lis

	go func() {
		if err := h.server.Serve(lis); err != nil {
			log.WithError(err).Error("Health server stopped")
		}
	}()
	log.Infof("Health server listening on %s", lis.Addr())
	return nil
}

// Addr returns the bound address once started.
func (h *HealthServer) Addr() string {
	if h.listener == nil {
		return h.addr
	}
	return h.listener.Addr().String()
}

// SetServing flips the overall status.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
}

// Stop reports NOT_SERVING and shuts the server down.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
