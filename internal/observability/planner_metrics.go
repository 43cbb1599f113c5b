package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skyroutex/surveyplanner/model"
)

// PlannerCollector exposes planning-specific Prometheus metrics.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	PlanDuration       prometheus.Histogram
	PlansTotal         prometheus.Counter
	WaypointsGenerated prometheus.Counter
	WaypointsBlocked   prometheus.Counter
	LastPlanCoverage   prometheus.Gauge
}

// NewPlannerCollector registers planning metrics against the provided registerer.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	planHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_plan_duration_seconds",
		Help:    "Duration of coverage plan computations.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	planHistogram, err := registerHistogram(reg, planHistogram, "planner_plan_duration_seconds")
	if err != nil {
		return nil, err
	}

	plans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_plans_total",
		Help: "Cumulative number of mission plans generated.",
	})
	plans, err = registerCounter(reg, plans, "planner_plans_total")
	if err != nil {
		return nil, err
	}

	waypoints := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_waypoints_generated_total",
		Help: "Cumulative number of waypoints produced across all plans.",
	})
	waypoints, err = registerCounter(reg, waypoints, "planner_waypoints_generated_total")
	if err != nil {
		return nil, err
	}

	blocked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_waypoints_blocked_total",
		Help: "Cumulative number of waypoints invalidated by obstacles or boundary checks.",
	})
	blocked, err = registerCounter(reg, blocked, "planner_waypoints_blocked_total")
	if err != nil {
		return nil, err
	}

	coverage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_last_plan_coverage_sq_meters",
		Help: "Coverage area of the most recently generated plan in square meters.",
	})
	coverage, err = registerGauge(reg, coverage, "planner_last_plan_coverage_sq_meters")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:           gatherer,
		PlanDuration:       planHistogram,
		PlansTotal:         plans,
		WaypointsGenerated: waypoints,
		WaypointsBlocked:   blocked,
		LastPlanCoverage:   coverage,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *PlannerCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObservePlan records the outcome of a single plan computation.
func (c *PlannerCollector) ObservePlan(d time.Duration, plan *model.MissionPlan) {
	if c == nil || plan == nil {
		return
	}
	if c.PlanDuration != nil {
		c.PlanDuration.Observe(d.Seconds())
	}
	if c.PlansTotal != nil {
		c.PlansTotal.Inc()
	}
	if c.WaypointsGenerated != nil {
		c.WaypointsGenerated.Add(float64(plan.Stats.TotalWaypoints))
	}
	if c.WaypointsBlocked != nil {
		c.WaypointsBlocked.Add(float64(plan.Stats.BlockedCount))
	}
	if c.LastPlanCoverage != nil {
		c.LastPlanCoverage.Set(plan.Stats.CoverageAreaSqMeters)
	}
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
