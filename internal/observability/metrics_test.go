package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetrics_WritePrometheus(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("POST", "/api/adaptive-quiz/start", 200, 120*time.Millisecond)
	m.ObserveAPI("POST", "/api/adaptive-quiz/start", 200, 80*time.Millisecond)
	m.ObserveGenerator("timeout", 30*time.Second)
	m.IncSessionEnded("stopped", "consecutive_easy_failures")
	m.IncArchive("dead")
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()

	if got := m.apiRequests.Value("POST", "/api/adaptive-quiz/start", "200"); got != 2 {
		t.Fatalf("api requests: %v", got)
	}
	if got := m.apiInflight.Value(); got != 1 {
		t.Fatalf("inflight: %v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE aq_api_requests_total counter",
		`aq_api_requests_total{method="POST",route="/api/adaptive-quiz/start",status="200"} 2`,
		`aq_api_request_duration_seconds_bucket{method="POST",route="/api/adaptive-quiz/start",le="0.1"} 1`,
		`aq_api_request_duration_seconds_bucket{method="POST",route="/api/adaptive-quiz/start",le="+Inf"} 2`,
		`aq_api_request_duration_seconds_count{method="POST",route="/api/adaptive-quiz/start"} 2`,
		`aq_generator_calls_total{outcome="timeout"} 1`,
		`aq_sessions_ended_total{status="stopped",reason="consecutive_easy_failures"} 1`,
		`aq_archive_attempts_total{outcome="dead"} 1`,
		"aq_api_inflight_requests 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ObserveGenerator("question", time.Millisecond)
	m.IncSessionStarted(true)
	m.IncSessionEnded("completed", "finished_by_user")
	m.IncArchive("done")
	m.ApiInflightInc()
	m.ApiInflightDec()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
	if Init(false) != nil {
		t.Fatalf("Init(false) should return nil")
	}
}

func TestLabelEscaping(t *testing.T) {
	if got := labelString([]string{"a", "b"}, []string{`x"y`}); got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString: %s", got)
	}
	if got := withLe("", "1"); got != `{le="1"}` {
		t.Fatalf("withLe: %s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders("a=1, b = 2 ,bad,=x")
	if len(h) != 2 || h["a"] != "1" || h["b"] != "2" {
		t.Fatalf("parseHeaders: %v", h)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty headers should be nil")
	}
}
