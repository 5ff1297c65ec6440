package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/fantasy-squad-service/internal/app/roster"
	"github.com/preston-bernstein/fantasy-squad-service/internal/config"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store"
	"github.com/preston-bernstein/fantasy-squad-service/internal/testutil"
)

// closeCountingCatalog records Close calls on top of a memory store.
type closeCountingCatalog struct {
	*store.MemoryStore
	closeCalls int
	closeErr   error
}

func (c *closeCountingCatalog) Close() error {
	c.closeCalls++
	return c.closeErr
}

func newTestCatalog(t *testing.T) *closeCountingCatalog {
	t.Helper()
	return &closeCountingCatalog{MemoryStore: testutil.NewMemoryCatalog(t, testutil.SampleSquad())}
}

func TestServerServesRosterAndSwap(t *testing.T) {
	cfg := config.Config{LineupSize: 2}
	srv := newServerWithCatalog(cfg, nil, newTestCatalog(t), nil)
	router := srv.Handler()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/swap", strings.NewReader(`{"dragged_id":1,"target_id":3,"source_role":"start","target_role":"reserve"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /swap, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/roster", nil))
	var part roster.Partition
	if err := json.NewDecoder(rr.Body).Decode(&part); err != nil {
		t.Fatalf("failed to decode roster response: %v", err)
	}
	if len(part.Starters) != 1 || part.Starters[0].ID != 3 {
		t.Fatalf("expected player 3 to start after swap, got %+v", part.Starters)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/lineup", nil))
	var lineup struct {
		Limit int `json:"limit"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&lineup); err != nil {
		t.Fatalf("failed to decode lineup: %v", err)
	}
	if lineup.Limit != 2 {
		t.Fatalf("expected configured lineup size 2, got %d", lineup.Limit)
	}
}

func TestAdminRoutesOnlyWithToken(t *testing.T) {
	withToken := newServerWithCatalog(config.Config{AdminToken: "secret"}, nil, newTestCatalog(t), nil)
	rr := httptest.NewRecorder()
	withToken.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/seed", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rr.Code)
	}

	withoutToken := newServerWithCatalog(config.Config{}, nil, newTestCatalog(t), nil)
	rr = httptest.NewRecorder()
	withoutToken.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/seed", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when admin disabled, got %d", rr.Code)
	}
}

func TestNewConstructsServerWithMemoryCatalog(t *testing.T) {
	cfg := config.Config{
		Port: "0",
		Catalog: config.CatalogConfig{
			Driver:      DriverMemory,
			SeedOnStart: true,
		},
	}
	srv, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv == nil || srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
	if n, _ := srv.catalog.Count(context.Background()); n == 0 {
		t.Fatalf("expected seeded catalog")
	}
}

func TestNewFailsOnUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.Config{Catalog: config.CatalogConfig{Driver: "mongo"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestGracefulShutdownStopsServerAndClosesCatalog(t *testing.T) {
	cat := newTestCatalog(t)
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, cat, httpSrv)
	srv.gracefulShutdown()

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
	if cat.closeCalls != 1 {
		t.Fatalf("expected catalog Close to be called once, got %d", cat.closeCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	cat := newTestCatalog(t)
	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	srv := newServerWithDeps(config.Config{ShutdownTimeout: 5 * time.Millisecond}, nil, cat, blocking)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if cat.closeCalls != 1 {
		t.Fatalf("expected catalog closed even after shutdown timeout")
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownFallsBackToDefaultTimeout(t *testing.T) {
	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	blocking := &testutil.BlockingHTTPServer{Unblock: make(chan struct{})}
	srv := newServerWithDeps(config.Config{}, nil, nil, blocking)

	start := time.Now()
	srv.gracefulShutdown()
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenCatalogCloseErrors(t *testing.T) {
	cat := newTestCatalog(t)
	cat.closeErr = errors.New("close failure")
	logger, buf := testutil.NewBufferLogger()
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, logger, cat, httpSrv)
	srv.gracefulShutdown()

	if httpSrv.ShutdownCalls != 1 || cat.closeCalls != 1 {
		t.Fatalf("expected shutdown and close, got %d/%d", httpSrv.ShutdownCalls, cat.closeCalls)
	}
	if !strings.Contains(buf.String(), "failed to close catalog") || !strings.Contains(buf.String(), "shutdown complete") {
		t.Fatalf("expected close failure and completion logged, got %s", buf.String())
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	httpSrv := &testutil.ErrHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv)

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := newTestCatalog(t)
	httpSrv := &testutil.CloseableHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, cat, httpSrv)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
	if cat.closeCalls != 1 {
		t.Fatalf("expected catalog Close called once, got %d", cat.closeCalls)
	}
}

func TestRunServesOverRealListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot bind loopback listener: %v", err)
	}
	cat := newTestCatalog(t)
	base := newServerWithCatalog(config.Config{}, nil, cat, nil)
	srvImpl := base.httpServer.(netHTTPServer)
	srvImpl.listener = ln
	base.httpServer = srvImpl

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		base.Run(ctx, cancel)
		close(done)
	}()

	var resp *http.Response
	deadline := time.Now().Add(time.Second)
	for {
		resp, err = http.Get("http://" + ln.Addr().String() + "/health")
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("health request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
}
