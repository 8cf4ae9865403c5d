package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"landingcore/internal/core"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()
	r.Observe(ctx, "preview", true, 3*time.Millisecond)
	r.Observe(ctx, "preview", true, time.Millisecond)
	r.Observe(ctx, "preview", false, time.Millisecond)
	r.Observe(ctx, "", true, time.Millisecond)

	if got := testutil.ToFloat64(r.operations.WithLabelValues("preview", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(r.operations.WithLabelValues("preview", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.CollectAndCount(r.durations); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder()
	r.Observe(context.Background(), "tick", true, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(body)
	for _, want := range []string{
		`landingcore_session_operations_total{operation="tick",status="success"} 1`,
		"landingcore_session_operation_duration_seconds_bucket",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("scrape output missing %q:\n%s", want, text)
		}
	}
}

func TestRecorderWiresIntoService(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()
	svc := core.NewInMemoryService(nil, core.WithMetricsRecorder(r))
	if _, err := svc.SelectProject(ctx, 1); !core.IsNotFound(err) {
		t.Fatalf("expected not found on empty catalog, got %v", err)
	}
	if got := testutil.ToFloat64(r.operations.WithLabelValues("select_project", "error")); got != 1 {
		t.Fatalf("expected one failed select, got %v", got)
	}
}

func TestTeeFeedsEveryRecorder(t *testing.T) {
	prom := NewRecorder()
	vars := core.NewExpvarMetricsRecorder("")
	var rec core.MetricsRecorder = Tee{prom, vars}
	rec.Observe(context.Background(), "refresh", false, 2*time.Millisecond)

	if got := testutil.ToFloat64(prom.operations.WithLabelValues("refresh", "error")); got != 1 {
		t.Fatalf("prometheus recorder missed the observation: %v", got)
	}
	if got := vars.Snapshot().Results["refresh"]["error"]; got != 1 {
		t.Fatalf("expvar recorder missed the observation: %v", got)
	}
}
