package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobescrow/internal/platform/config"
)

func TestBuildAPIFallsBackToInProcessServices(t *testing.T) {
	app, err := BuildAPIFromConfig(context.Background(), config.Config{
		ServiceName:           "escrow",
		HTTPPort:              "0",
		OutboxPollInterval:    time.Second,
		JudgeConsensusEnabled: true,
		JudgeReplicas:         3,
		JudgeQuorum:           2,
	}, slog.Default())
	if err != nil {
		t.Fatalf("build api failed: %v", err)
	}
	defer app.Close()

	if app.postgres != nil || app.redis != nil {
		t.Fatal("expected no external connections")
	}
	if app.relay == nil {
		t.Fatal("expected in-memory outbox relay")
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(`{"brief":"Build a landing page","budget":10,"deadline":"soon"}`))
	req.Header.Set("X-Sender-Address", "0xclient")
	rr := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	published, err := app.relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected posted event to be relayed, got %d", published)
	}
}

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q): expected %q, got %q", in, want, got)
		}
	}
}
