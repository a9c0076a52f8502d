package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/rpc"
	"github.com/civicops/drconsole/internal/server/auth"
	"github.com/civicops/drconsole/internal/server/metrics"
	"github.com/civicops/drconsole/internal/server/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.NopLogger{}, &fakeUsers{}, &fakeResources{}, &fakeDocuments{}, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.NopLogger{}, &fakeUsers{}, &fakeResources{}, &fakeDocuments{}, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// startBufconn serves srv in memory and returns a connected client.
func startBufconn(t *testing.T, srv *GRPCServer) rpc.ResourceServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return rpc.NewResourceServiceClient(conn)
}

func TestBufconn_RoundTripWithAuthAndMetrics(t *testing.T) {
	m := metrics.New()
	res := &fakeResources{records: []models.Record{
		{ID: "a1", Data: map[string]any{"title": "Flood", "tags": []any{"river"}}, CreatedAt: stamp, UpdatedAt: stamp},
	}}
	srv := NewGRPCServer("", logging.NopLogger{}, &fakeUsers{}, res, &fakeDocuments{}, "secret", m.UnaryInterceptor)
	client := startBufconn(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	req, err := rpc.ListRequest{Collection: common.CollectionAdvisories}.Proto()
	require.NoError(t, err)

	_, err = client.List(ctx, req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	tok, err := auth.GenerateToken("u1", "alice", []byte("secret"), time.Minute)
	require.NoError(t, err)
	authed := metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, tok)

	out, err := client.List(authed, req)
	require.NoError(t, err)
	recs, err := rpc.ParseRecords(out)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []any{"river"}, recs[0].Fields["tags"])

	created, err := rpc.CreateRequest{Collection: common.CollectionAdvisories, Fields: map[string]any{"title": "Heat"}}.Proto()
	require.NoError(t, err)
	_, err = client.Create(authed, created)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.author)

	expected := `
# HELP drconsole_rpc_requests_total Number of RPCs handled, by method and status code
# TYPE drconsole_rpc_requests_total counter
drconsole_rpc_requests_total{code="OK",method="/drconsole.v1.ResourceService/Create"} 1
drconsole_rpc_requests_total{code="OK",method="/drconsole.v1.ResourceService/List"} 1
drconsole_rpc_requests_total{code="OK",method="/drconsole.v1.ResourceService/Ping"} 1
drconsole_rpc_requests_total{code="Unauthenticated",method="/drconsole.v1.ResourceService/List"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "drconsole_rpc_requests_total"))
}
