package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"edstudy/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct {
	down atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestHealthServer(t *testing.T) {
	pinger := &fakePinger{}
	srv, err := NewServer(0, pinger, logger.Discard())
	require.NoError(t, err)
	go srv.Start()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(srv.GetAddr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		down    bool
		service string
		want    healthpb.HealthCheckResponse_ServingStatus
	}{
		{name: "存储正常", service: "", want: healthpb.HealthCheckResponse_SERVING},
		{name: "按服务名查询", service: ServiceName, want: healthpb.HealthCheckResponse_SERVING},
		{name: "存储不可用", down: true, service: ServiceName, want: healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger.down.Store(tt.down)
			srv.Refresh(ctx)

			resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: tt.service})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.GetStatus())
		})
	}
}
