package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	healthgrpc "github.com/andarie1/task-manager/adapters/grpc"
	"github.com/andarie1/task-manager/testutil"
)

const bufConnSize = 1024 * 1024

func newHealthClient(t *testing.T, srv *healthgrpc.Server) (healthpb.HealthClient, func()) {
	t.Helper()

	listener := bufconn.Listen(bufConnSize)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	dialCtx, cancelDial := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDial()

	conn, err := grpc.DialContext(
		dialCtx,
		"bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return listener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		srv.GracefulStop()
		listener.Close()
		t.Fatalf("failed to dial bufconn server: %v", err)
	}

	cleanup := func() {
		_ = conn.Close()
		srv.GracefulStop()
		_ = listener.Close()
		select {
		case <-serveErr:
		default:
		}
	}

	return healthpb.NewHealthClient(conn), cleanup
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q) returned error: %v", service, err)
	}
	return resp.GetStatus()
}

func TestHealth_FollowsProbe(t *testing.T) {
	db := testutil.NewFakeDB()
	srv := healthgrpc.NewServer(testutil.DiscardLogger(), db)
	client, cleanup := newHealthClient(t, srv)
	defer cleanup()

	if got := check(t, client, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before the first probe, got %v", got)
	}

	if err := srv.Probe(context.Background()); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if got := check(t, client, healthgrpc.ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", got)
	}

	db.PingErr = errors.New("db is down")
	if err := srv.Probe(context.Background()); err == nil {
		t.Fatalf("expected Probe to report the ping error")
	}
	if got := check(t, client, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", got)
	}
}

func TestHealth_UnknownService(t *testing.T) {
	srv := healthgrpc.NewServer(testutil.DiscardLogger(), testutil.NewFakeDB())
	client, cleanup := newHealthClient(t, srv)
	defer cleanup()

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "billing"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
