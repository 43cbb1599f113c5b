package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/skyroutex/surveyplanner/model"
)

func TestMiddlewareRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewAPICollector(reg)
	if err != nil {
		t.Fatalf("NewAPICollector: %v", err)
	}

	router := mux.NewRouter()
	router.Use(collector.Middleware())
	router.HandleFunc("/v1/missions/{id}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/v1/missions/abc123", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/v1/missions/{id}", "GET", "200")); got != 1 {
		t.Fatalf("planner_http_requests_total = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "planner_http_request_duration_seconds", map[string]string{
		"route":  "/v1/missions/{id}",
		"method": "GET",
	}); count != 1 {
		t.Fatalf("planner_http_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewAPICollector(reg)
	if err != nil {
		t.Fatalf("NewAPICollector: %v", err)
	}

	router := mux.NewRouter()
	router.Use(collector.Middleware())
	router.HandleFunc("/v1/missions/plan", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/v1/missions/plan", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/v1/missions/plan", "POST", "400")); got != 1 {
		t.Fatalf("planner_http_requests_total error label = %v, want 1", got)
	}
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewAPICollector(reg)
	if err != nil {
		t.Fatalf("NewAPICollector: %v", err)
	}
	planner, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}

	collector.SetStoredMissions(7)
	collector.HTTPRequests.WithLabelValues("/healthz", "GET", "200").Inc()
	collector.HTTPDurations.WithLabelValues("/healthz", "GET").Observe(0.01)

	plan := &model.MissionPlan{
		Stats: model.MissionStats{
			TotalWaypoints:       20,
			ValidCount:           18,
			BlockedCount:         2,
			CoverageAreaSqMeters: 12000,
		},
	}
	planner.ObservePlan(25*time.Millisecond, plan)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"planner_http_requests_total",
		"planner_http_request_duration_seconds",
		"planner_stored_missions",
		"planner_plans_total",
		"planner_waypoints_generated_total",
		"planner_waypoints_blocked_total",
		"planner_last_plan_coverage_sq_meters",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "planner_stored_missions 7") {
		t.Fatalf("/metrics output missing stored missions gauge value: %s", body)
	}
}

func TestObservePlanAccumulatesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	planner, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}

	plan := &model.MissionPlan{
		Stats: model.MissionStats{TotalWaypoints: 10, BlockedCount: 3},
	}
	planner.ObservePlan(time.Millisecond, plan)
	planner.ObservePlan(time.Millisecond, plan)

	if got := testutil.ToFloat64(planner.PlansTotal); got != 2 {
		t.Fatalf("planner_plans_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(planner.WaypointsGenerated); got != 20 {
		t.Fatalf("planner_waypoints_generated_total = %v, want 20", got)
	}
	if got := testutil.ToFloat64(planner.WaypointsBlocked); got != 6 {
		t.Fatalf("planner_waypoints_blocked_total = %v, want 6", got)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
